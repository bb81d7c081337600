package shared

import (
	"context"
	"time"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// NotificationJob is one outbox row picked up by the delivery worker.
type NotificationJob struct {
	Channel   string
	Topic     string
	Recipient string
	Payload   []byte
	RunAt     time.Time
}

type Message struct {
	Channel   string
	Topic     string
	Recipient string
	Data      map[string]any
}

// Notifier dispatches messages as part of the caller's transaction.
type Notifier interface {
	Notify(ctx context.Context, tx Tx, msg Message) error
}
