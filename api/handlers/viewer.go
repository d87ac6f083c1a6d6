// ABOUTME: Viewer handlers serve the published result file, the result log and the catalog snapshot
// ABOUTME: Files are read on every request so a finished run is visible immediately

package handlers

import (
	"context"
	"net/http"
	"os"

	"channel-catalog/core/domain"
	"channel-catalog/core/errors"
	"channel-catalog/core/interfaces"
	"github.com/danielgtaylor/huma/v2"
)

const textContentType = "text/plain; charset=utf-8"

// ViewerFiles names the artifacts the viewer serves
type ViewerFiles struct {
	FinalFile string
	LogFile   string
}

// ViewerHandler serves run artifacts
type ViewerHandler struct {
	files     ViewerFiles
	snapshots interfaces.SnapshotStore
}

// NewViewerHandler creates a viewer; snapshots may be nil
func NewViewerHandler(files ViewerFiles, snapshots interfaces.SnapshotStore) *ViewerHandler {
	return &ViewerHandler{files: files, snapshots: snapshots}
}

// RegisterRoutes registers the viewer routes
func (h *ViewerHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getIndex",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Get the published channel list",
		Tags:        []string{"Viewer"},
	}, h.GetResult)

	huma.Register(api, huma.Operation{
		OperationID: "getResult",
		Method:      http.MethodGet,
		Path:        "/result",
		Summary:     "Get the published channel list",
		Tags:        []string{"Viewer"},
	}, h.GetResult)

	huma.Register(api, huma.Operation{
		OperationID: "getLog",
		Method:      http.MethodGet,
		Path:        "/log",
		Summary:     "Get the result log with measured scores",
		Tags:        []string{"Viewer"},
	}, h.GetLog)

	huma.Register(api, huma.Operation{
		OperationID: "getCatalog",
		Method:      http.MethodGet,
		Path:        "/catalog",
		Summary:     "Get the catalog of the last completed run",
		Tags:        []string{"Viewer"},
	}, h.GetCatalog)
}

// TextOutput is a plain text response
type TextOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// CatalogOutput wraps the latest snapshot
type CatalogOutput struct {
	Body domain.Snapshot
}

// GetResult handles GET / and GET /result
func (h *ViewerHandler) GetResult(ctx context.Context, _ *struct{}) (*TextOutput, error) {
	return readText("result file", h.files.FinalFile)
}

// GetLog handles GET /log
func (h *ViewerHandler) GetLog(ctx context.Context, _ *struct{}) (*TextOutput, error) {
	return readText("result log", h.files.LogFile)
}

// GetCatalog handles GET /catalog
func (h *ViewerHandler) GetCatalog(ctx context.Context, _ *struct{}) (*CatalogOutput, error) {
	if h.snapshots == nil {
		return nil, huma.Error404NotFound("No catalog snapshot store configured")
	}
	snapshot, err := h.snapshots.Latest(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &CatalogOutput{Body: *snapshot}, nil
}

func readText(resource, path string) (*TextOutput, error) {
	if path == "" {
		return nil, toHumaError(&errors.NotFoundError{Resource: resource, ID: "(not configured)"})
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, toHumaError(&errors.NotFoundError{Resource: resource, ID: path})
	}
	if err != nil {
		return nil, toHumaError(err)
	}
	return &TextOutput{ContentType: textContentType, Body: data}, nil
}
