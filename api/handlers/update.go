// ABOUTME: Update handlers start, stop and report on catalog update runs
// ABOUTME: Runs execute in the background; clients poll /status

package handlers

import (
	"context"
	"net/http"

	"channel-catalog/core/updater"
	"github.com/danielgtaylor/huma/v2"
)

// UpdateService is what the handlers need from the update service
type UpdateService interface {
	Start(ctx context.Context) (string, error)
	Stop() bool
	Status() updater.Status
}

// UpdateHandler handles update control requests
type UpdateHandler struct {
	service UpdateService
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service UpdateService) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// RegisterRoutes registers the update routes
func (h *UpdateHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "startUpdate",
		Method:        http.MethodPost,
		Path:          "/update",
		Summary:       "Start a catalog update",
		Description:   "Starts a pipeline run in the background. Fails with 409 while another run is in progress.",
		Tags:          []string{"Update"},
		DefaultStatus: http.StatusAccepted,
	}, h.StartUpdate)

	huma.Register(api, huma.Operation{
		OperationID: "stopUpdate",
		Method:      http.MethodPost,
		Path:        "/stop",
		Summary:     "Stop the running catalog update",
		Tags:        []string{"Update"},
	}, h.StopUpdate)

	huma.Register(api, huma.Operation{
		OperationID: "getStatus",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Get the latest progress event",
		Tags:        []string{"Update"},
	}, h.GetStatus)
}

// StartUpdateOutput carries the id of the started run
type StartUpdateOutput struct {
	Body struct {
		RunID string `json:"run_id" doc:"Identifier of the started run"`
	}
}

// StopUpdateOutput reports whether a run was stopped
type StopUpdateOutput struct {
	Body struct {
		Stopped bool `json:"stopped" doc:"False when no run was in progress"`
	}
}

// StatusOutput wraps the service status
type StatusOutput struct {
	Body updater.Status
}

// StartUpdate handles POST /update
func (h *UpdateHandler) StartUpdate(ctx context.Context, _ *struct{}) (*StartUpdateOutput, error) {
	id, err := h.service.Start(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &StartUpdateOutput{}
	out.Body.RunID = id
	return out, nil
}

// StopUpdate handles POST /stop
func (h *UpdateHandler) StopUpdate(ctx context.Context, _ *struct{}) (*StopUpdateOutput, error) {
	out := &StopUpdateOutput{}
	out.Body.Stopped = h.service.Stop()
	return out, nil
}

// GetStatus handles GET /status
func (h *UpdateHandler) GetStatus(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	return &StatusOutput{Body: h.service.Status()}, nil
}
