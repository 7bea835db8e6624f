package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetWeeklyLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/overall", handler.GetOverallLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/team", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("PATCH /v1/team", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeamProfile)))
	mux.Handle("POST /v1/team/slots/swap", RequireAuth(verifier, http.HandlerFunc(handler.SwapSlots)))
	mux.Handle("PUT /v1/team/slots/{slot}", RequireAuth(verifier, http.HandlerFunc(handler.PlacePlayer)))
	mux.Handle("DELETE /v1/team/slots/{slot}", RequireAuth(verifier, http.HandlerFunc(handler.RemovePlayer)))
	mux.Handle("POST /v1/team/captain", RequireAuth(verifier, http.HandlerFunc(handler.SetCaptain)))
	mux.Handle("POST /v1/team/vice-captain", RequireAuth(verifier, http.HandlerFunc(handler.SetViceCaptain)))
	mux.Handle("POST /v1/team/chips/toggle", RequireAuth(verifier, http.HandlerFunc(handler.ToggleChip)))
	mux.Handle("POST /v1/team/submit", RequireAuth(verifier, http.HandlerFunc(handler.SubmitTeam)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("PUT /v1/admin/players", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpsertPlayer)))
	mux.Handle("DELETE /v1/admin/players/{playerID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.DeletePlayer)))
	mux.Handle("POST /v1/admin/matches", RequireAdminToken(adminToken, http.HandlerFunc(handler.IngestMatch)))
	mux.Handle("POST /v1/admin/scoring/refresh", RequireAdminToken(adminToken, http.HandlerFunc(handler.RefreshScoring)))
}
