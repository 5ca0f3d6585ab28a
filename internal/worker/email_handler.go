package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"cvforge/internal/mailer"
	"cvforge/internal/tasks"
)

// OTPEmailHandler delivers verification codes from the queue. Errors are
// returned to asynq so delivery is retried; the originating HTTP request
// has long since completed.
type OTPEmailHandler struct {
	mailer mailer.Mailer
	logger *slog.Logger
}

func NewOTPEmailHandler(m mailer.Mailer, logger *slog.Logger) *OTPEmailHandler {
	return &OTPEmailHandler{mailer: m, logger: logger}
}

func (h *OTPEmailHandler) ProcessTask(_ context.Context, t *asynq.Task) error {
	var payload tasks.OTPEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode otp email payload: %w", err)
	}

	logger := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("email", payload.Email),
	)

	body := mailer.OTPBody(payload.Name, payload.Code)
	if err := h.mailer.SendEmail(payload.Email, "Your CVForge verification code", body); err != nil {
		logger.Error("send otp email failed", slog.Any("error", err))
		return fmt.Errorf("send otp email: %w", err)
	}

	logger.Info("otp email delivered")
	return nil
}
