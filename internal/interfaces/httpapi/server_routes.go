package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/stats/batting/leaderboard", handler.GetBattingLeaderboard)
	mux.HandleFunc("GET /v1/stats/bowling/leaderboard", handler.GetBowlingLeaderboard)
	mux.HandleFunc("GET /v1/stats/players/{playerID}/summary", handler.GetPlayerSummary)
	mux.HandleFunc("GET /v1/stats/league-table", handler.GetLeagueTable)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("GET /v1/roster/link-suggestions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListLinkSuggestions)))
	mux.Handle("POST /v1/roster/links", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.LinkRosterMember)))
	mux.Handle("DELETE /v1/roster/links/{memberID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UnlinkRosterMember)))
	mux.Handle("GET /v1/roster/duplicate-groups", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListDuplicateGroups)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("GET /v1/internal/jobs/sync/logs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListSyncLogs)))
}
