package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/player"
	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

type upsertPlayerRequest struct {
	ID        int64   `json:"id" validate:"required,gt=0"`
	Name      string  `json:"name" validate:"required,max=100"`
	Position  string  `json:"position" validate:"required,oneof=GK CD W HS"`
	Price     float64 `json:"price" validate:"gte=0"`
	TeamColor string  `json:"teamColor" validate:"omitempty,max=30"`
	ImageURL  string  `json:"imageUrl" validate:"omitempty,url"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.playerService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	id, err := parsePlayerID(r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.playerService.GetByID(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertPlayer")
	defer span.End()

	var req upsertPlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.playerService.Upsert(ctx, player.Player{
		ID:        req.ID,
		Name:      strings.TrimSpace(req.Name),
		Position:  player.Position(req.Position),
		Price:     req.Price,
		TeamColor: strings.TrimSpace(req.TeamColor),
		ImageURL:  strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert player failed", "player_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	id, err := parsePlayerID(r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.playerService.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func parsePlayerID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid player id %q", usecase.ErrInvalidInput, raw)
	}

	return id, nil
}
