// Package notifier delivers messages by writing them to the notification_jobs outbox.
package notifier

import (
	"context"
	"encoding/json"

	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/shared"
)

var ErrInvalidMessage = errs.New("notification needs a channel, topic and recipient")

type Outbox struct {
	clock clock.Clock
}

func NewOutbox(clk clock.Clock) *Outbox {
	return &Outbox{clock: clk}
}

// Notify queues msg in the caller's transaction, so it is only sent if the transaction commits.
func (o *Outbox) Notify(ctx context.Context, tx shared.Tx, msg shared.Message) error {
	if msg.Channel == "" || msg.Topic == "" || msg.Recipient == "" {
		return ErrInvalidMessage
	}
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}
	return tx.Notifications().CreateJob(ctx, shared.NotificationJob{
		Channel:   msg.Channel,
		Topic:     msg.Topic,
		Recipient: msg.Recipient,
		Payload:   payload,
		RunAt:     o.clock.Now(),
	})
}
