package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants shared by queue producers and consumers.
const (
	TypeOTPEmail = "email:otp"
)

// OTPEmailPayload carries the minimum needed to deliver a verification
// code. The code travels in the payload rather than being re-read from
// the registry so a replaced record never races the mail in flight.
type OTPEmailPayload struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewOTPEmailTask builds the dispatch task for a freshly issued code.
func NewOTPEmailTask(email, name, code, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(OTPEmailPayload{
		Email:         email,
		Name:          name,
		Code:          code,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOTPEmail, payload), nil
}
