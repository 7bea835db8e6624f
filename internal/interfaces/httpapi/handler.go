package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/gameweek"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

type Handler struct {
	teamService        *usecase.TeamService
	playerService      *usecase.PlayerService
	matchService       *usecase.MatchService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	schedule           gameweek.Schedule
	logger             *logging.Logger
	validator          *validator.Validate
	now                func() time.Time
}

func NewHandler(
	teamService *usecase.TeamService,
	playerService *usecase.PlayerService,
	matchService *usecase.MatchService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	schedule gameweek.Schedule,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:        teamService,
		playerService:      playerService,
		matchService:       matchService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		schedule:           schedule,
		logger:             logger,
		validator:          validator.New(),
		now:                time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	now := h.now().UTC()
	current, ok := h.schedule.CurrentAt(now)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no current gameweek", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekDTO{
		ID:       current.ID,
		Start:    current.Start,
		Deadline: current.Deadline,
		Editable: h.schedule.EditableAt(now) == nil,
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
