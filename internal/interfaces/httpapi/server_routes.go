package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/predictions", handler.GetPredictions)
	mux.HandleFunc("GET /v1/predictions/all", handler.ListAllPredictions)
	mux.HandleFunc("GET /v1/predictions/stats", handler.GetPredictionStats)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/prewarm", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPrewarmJob)))
}
