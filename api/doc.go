// Package api provides the HTTP viewer for the channel catalog.
// It uses the Huma framework on a chi router for OpenAPI documentation and
// request/response handling.
//
// # Architecture
//
// - server.go: Huma API configuration, middleware and route registration
// - handlers/: Viewer and update control handlers
// - middleware/: Request logging and per-IP rate limiting
//
// # Routes
//
//	GET  /          published channel list (text)
//	GET  /result    published channel list (text)
//	GET  /log       result log with measured scores (text)
//	GET  /catalog   snapshot of the last completed run (JSON)
//	GET  /status    latest progress event and last run summary (JSON)
//	POST /update    start a run in the background; 409 while one is running
//	POST /stop      stop the running update
//
// The OpenAPI document is served at /openapi.json and the docs UI at /docs.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//	api.Register(humaAPI, api.Services{Files: files, Snapshots: store, Updates: service})
//	http.ListenAndServe(":8000", router)
//
// Errors use the RFC 7807 problem format; domain errors map to 400, 404,
// 409 or 500.
package api
