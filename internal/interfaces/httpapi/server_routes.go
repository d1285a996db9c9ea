package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/bet-types", handler.ListBetTypes)
	mux.HandleFunc("GET /v1/packages", handler.ListPackages)
}

func registerAccountRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/account", RequireAuth(verifier, http.HandlerFunc(handler.RegisterAccount)))
	mux.Handle("GET /v1/account", RequireAuth(verifier, http.HandlerFunc(handler.GetAccount)))
	mux.Handle("GET /v1/account/stream", RequireAuth(verifier, http.HandlerFunc(handler.StreamAccount)))
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/analyses", RequireAuth(verifier, http.HandlerFunc(handler.CreateAnalysis)))
	mux.Handle("GET /v1/analyses", RequireAuth(verifier, http.HandlerFunc(handler.ListAnalyses)))
}

// Provider callbacks keep their own contracts and sit outside /v1.
func registerPurchaseRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/purchases", RequireAuth(verifier, http.HandlerFunc(handler.StartPurchase)))
	mux.Handle("GET /v1/purchases/{ticketID}", RequireAuth(verifier, http.HandlerFunc(handler.AwaitPurchase)))
	mux.HandleFunc("POST /api/shopier/callback", handler.ShopierCallback)
	mux.Handle("POST /api/googleplay/verify", OptionalAuth(verifier, http.HandlerFunc(handler.VerifyGooglePlayPurchase)))
}
