package queries

import (
	"context"
	"time"

	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound     = errs.Mark(errs.New("payment attempt not found"), errs.ErrNotFound)
	ErrInvalidStatusFilter = errs.Mark(errs.New("unknown payment status filter"), errs.ErrValidation)
)

var paymentStatuses = map[string]struct{}{
	"pending": {}, "processing": {}, "success": {}, "failed": {}, "cancelled": {},
}

type PaymentReadStore interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReport, error)
	ListFirstPage(ctx context.Context, tenantID uuid.UUID, status *string, limit int32) ([]*PaymentListItem, error)
	ListKeyset(ctx context.Context, tenantID uuid.UUID, status *string, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*PaymentListItem, error)
}

type PaymentQueries interface {
	Report(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReport, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filters PaymentFilters, cursor *Cursor, limit int) ([]*PaymentListItem, *Cursor, error)
}

type paymentQueriesImpl struct {
	readStore PaymentReadStore
}

func NewPaymentQueries(readStore PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{readStore: readStore}
}

func (q *paymentQueriesImpl) Report(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReport, error) {
	report, err := q.readStore.FindByID(ctx, tenantID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, errs.Mark(err, errs.ErrInternal)
	}
	return report, nil
}

func (q *paymentQueriesImpl) ListByTenant(ctx context.Context, tenantID uuid.UUID, filters PaymentFilters, cursor *Cursor, limit int) ([]*PaymentListItem, *Cursor, error) {
	if filters.Status != nil {
		if _, ok := paymentStatuses[*filters.Status]; !ok {
			return nil, nil, ErrInvalidStatusFilter
		}
	}

	limit = ValidateLimit(limit)
	var rows []*PaymentListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.readStore.ListFirstPage(ctx, tenantID, filters.Status, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.readStore.ListKeyset(ctx, tenantID, filters.Status, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrInternal)
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
