package httpapi

import (
	"net/http"
	"strings"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/match"
)

type ingestMatchRequest struct {
	ID      string                           `json:"id" validate:"omitempty,max=64"`
	Players map[string]ingestParticipantBody `json:"players" validate:"required,min=1"`
	Summary *ingestSummaryBody               `json:"summary"`
}

type ingestParticipantBody struct {
	Username string `json:"username" validate:"omitempty,max=100"`
	Team     string `json:"team" validate:"omitempty,max=100"`
	Goals    int    `json:"goals" validate:"gte=0"`
	Assists  int    `json:"assists" validate:"gte=0"`
	Saves    int    `json:"saves" validate:"gte=0"`
	MVP      bool   `json:"mvp"`
}

type ingestSummaryBody struct {
	Winner     string `json:"winner" validate:"required,max=100"`
	Team1Name  string `json:"team1Name" validate:"required,max=100"`
	Team1Score int    `json:"team1Score" validate:"gte=0"`
	Team2Name  string `json:"team2Name" validate:"required,max=100"`
	Team2Score int    `json:"team2Score" validate:"gte=0"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	records, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(records))
	for _, rec := range records {
		items = append(items, matchToDTO(rec))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	rec, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(rec))
}

func (h *Handler) IngestMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestMatch")
	defer span.End()

	var req ingestMatchRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec := match.Record{
		ID:      strings.TrimSpace(req.ID),
		Players: make(map[string]match.ParticipantStats, len(req.Players)),
	}
	for key, p := range req.Players {
		rec.Players[key] = match.ParticipantStats{
			Username: strings.TrimSpace(p.Username),
			Team:     strings.TrimSpace(p.Team),
			Goals:    p.Goals,
			Assists:  p.Assists,
			Saves:    p.Saves,
			MVP:      p.MVP,
		}
	}
	if req.Summary != nil {
		rec.Summary = &match.Summary{
			Winner: strings.TrimSpace(req.Summary.Winner),
			Score: match.Scoreline{
				Team1Name:  strings.TrimSpace(req.Summary.Team1Name),
				Team1Score: req.Summary.Team1Score,
				Team2Name:  strings.TrimSpace(req.Summary.Team2Name),
				Team2Score: req.Summary.Team2Score,
			},
		}
	}

	stored, err := h.matchService.Ingest(ctx, rec)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest match failed", "match_id", rec.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(stored))
}

func (h *Handler) RefreshScoring(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshScoring")
	defer span.End()

	if err := h.scoringService.RefreshAllPoints(ctx); err != nil {
		h.logger.WarnContext(ctx, "scoring refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "refreshed"})
}
