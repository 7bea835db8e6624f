package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

func (h *Handler) GetWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeeklyLeaderboard")
	defer span.End()

	gameweekID := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("gameweek")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid gameweek %q", usecase.ErrInvalidInput, raw))
			return
		}
		gameweekID = parsed
	}

	rows, err := h.leaderboardService.Weekly(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "weekly leaderboard failed", "gameweek", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetOverallLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverallLeaderboard")
	defer span.End()

	rows, err := h.leaderboardService.Overall(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "overall leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
