package notification

import (
	"context"
	"log/slog"

	"agrilink/internal/domain/service"
)

// noopService drops notifications when Firebase is not configured, so the
// rest of the system can treat push delivery as always available.
type noopService struct {
	logger *slog.Logger
}

// NewNoopService creates a notification service that logs and discards.
func NewNoopService(logger *slog.Logger) service.NotificationService {
	return &noopService{logger: logger}
}

func (s *noopService) SendSingleNotification(_ context.Context, token, title, _ string, _ map[string]string) error {
	s.logger.Debug("[NoopNotification] Push delivery disabled, skipping",
		slog.String("title", title),
	)

	return nil
}
