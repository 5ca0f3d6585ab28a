package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

// Dispatcher enqueues email tasks onto the asynq queue for the worker
// process to deliver.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(client *asynq.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) DispatchOTP(ctx context.Context, email, name, code, correlationID string) error {
	task, err := NewOTPEmailTask(email, name, code, correlationID)
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Queue("emails"),
	)
	return err
}
