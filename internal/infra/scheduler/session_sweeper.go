// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"log/slog"

	"agrilink/config"
	"agrilink/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

// defaultSweepSchedule runs the cleanup hourly when no schedule is configured.
const defaultSweepSchedule = "@hourly"

// SessionSweeper deletes expired refresh tokens on a cron schedule.
type SessionSweeper struct {
	cron             *cron.Cron
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// SweeperParams holds dependencies for the SessionSweeper, injected by Fx.
type SweeperParams struct {
	fx.In

	Lc               fx.Lifecycle
	Config           *config.Config
	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewSessionSweeper creates the sweeper and registers its lifecycle hooks.
func NewSessionSweeper(params SweeperParams) (*SessionSweeper, error) {
	schedule := defaultSweepSchedule
	if params.Config.Auth != nil && params.Config.Auth.SessionSweepSchedule != "" {
		schedule = params.Config.Auth.SessionSweepSchedule
	}

	sweeper := &SessionSweeper{
		cron:             cron.New(),
		refreshTokenRepo: params.RefreshTokenRepo,
		logger:           params.Logger,
	}

	if _, err := sweeper.cron.AddFunc(schedule, sweeper.sweep); err != nil {
		return nil, errors.Wrapf(err, "invalid session sweep schedule %q", schedule)
	}

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			params.Logger.Info("Starting session sweeper", slog.String("schedule", schedule))
			sweeper.cron.Start()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := sweeper.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}

			return nil
		},
	})

	return sweeper, nil
}

func (s *SessionSweeper) sweep() {
	ctx := context.Background()
	removed, err := s.refreshTokenRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		s.logger.Error("Failed to sweep expired sessions", slog.Any("error", err))

		return
	}
	if removed > 0 {
		s.logger.Info("Swept expired sessions", slog.Int64("removed", removed))
	}
}
