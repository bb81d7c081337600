package repository

import (
	"context"

	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/usecase/shared"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, job shared.NotificationJob) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_jobs (channel, topic, recipient, payload, status, run_at)
		VALUES ($1, $2, $3, $4, 'queued', $5)`,
		job.Channel, job.Topic, job.Recipient, job.Payload, job.RunAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
