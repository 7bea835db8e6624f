package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/chip"
	"github.com/aquapolo/waterpolo-fantasy/internal/domain/userteam"
	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

type swapSlotsRequest struct {
	From int `json:"from" validate:"gte=0,lte=7"`
	To   int `json:"to" validate:"gte=0,lte=7"`
}

type placePlayerRequest struct {
	PlayerID int64 `json:"playerId" validate:"required,gt=0"`
}

type captainRequest struct {
	Slot int `json:"slot" validate:"gte=0,lte=7"`
}

type toggleChipRequest struct {
	Chip string `json:"chip" validate:"required"`
}

type updateTeamProfileRequest struct {
	TeamName string              `json:"teamName" validate:"omitempty,max=100"`
	LogoURL  string              `json:"logoUrl" validate:"omitempty,url"`
	Settings *teamSettingsUpdate `json:"settings"`
}

type teamSettingsUpdate struct {
	Notifications bool `json:"notifications"`
	PublicProfile bool `json:"publicProfile"`
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	team, err := h.teamService.GetTeam(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) SwapSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapSlots")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapSlotsRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.SwapSlots(ctx, principal.UserID, req.From, req.To)
	if err != nil {
		h.logger.WarnContext(ctx, "swap slots failed", "user_id", principal.UserID, "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) PlacePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlacePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	slot, err := parseSlotIndex(r.PathValue("slot"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req placePlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.PlacePlayer(ctx, principal.UserID, slot, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "place player failed", "user_id", principal.UserID, "slot", slot, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	slot, err := parseSlotIndex(r.PathValue("slot"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.RemovePlayer(ctx, principal.UserID, slot)
	if err != nil {
		h.logger.WarnContext(ctx, "remove player failed", "user_id", principal.UserID, "slot", slot, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) SetCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCaptain")
	defer span.End()

	h.setCaptainFlag(ctx, w, r, false)
}

func (h *Handler) SetViceCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetViceCaptain")
	defer span.End()

	h.setCaptainFlag(ctx, w, r, true)
}

func (h *Handler) setCaptainFlag(ctx context.Context, w http.ResponseWriter, r *http.Request, vice bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req captainRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var team userteam.Team
	var err error
	if vice {
		team, err = h.teamService.SetViceCaptain(ctx, principal.UserID, req.Slot)
	} else {
		team, err = h.teamService.SetCaptain(ctx, principal.UserID, req.Slot)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "set captain failed", "user_id", principal.UserID, "slot", req.Slot, "vice", vice, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) ToggleChip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleChip")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req toggleChipRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.ToggleChip(ctx, principal.UserID, chip.Kind(strings.TrimSpace(req.Chip)))
	if err != nil {
		h.logger.WarnContext(ctx, "toggle chip failed", "user_id", principal.UserID, "chip", req.Chip, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) UpdateTeamProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeamProfile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateTeamProfileRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.UpdateTeamProfileInput{
		UserID:   principal.UserID,
		TeamName: req.TeamName,
		LogoURL:  req.LogoURL,
	}
	if req.Settings != nil {
		input.Settings = &userteam.Settings{
			Notifications: req.Settings.Notifications,
			PublicProfile: req.Settings.PublicProfile,
		}
	}

	team, err := h.teamService.UpdateProfile(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update team profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) SubmitTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	team, err := h.teamService.Submit(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "submit team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func parseSlotIndex(raw string) (int, error) {
	slot, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid slot index %q", usecase.ErrInvalidInput, raw)
	}

	return slot, nil
}
