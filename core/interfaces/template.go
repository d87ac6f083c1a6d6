package interfaces

import (
	"context"

	"channel-catalog/core/domain"
)

// TemplateLoader reads the channel template that seeds every run
type TemplateLoader interface {
	Load(ctx context.Context) (domain.Template, error)
}
