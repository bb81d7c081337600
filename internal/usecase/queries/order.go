package queries

import (
	"context"

	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errs.Mark(errs.New("order not found"), errs.ErrNotFound)

type OrderReadStore interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderView, error)
}

type OrderQueries interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderView, error)
}

type orderQueriesImpl struct {
	readStore OrderReadStore
}

func NewOrderQueries(readStore OrderReadStore) OrderQueries {
	return &orderQueriesImpl{readStore: readStore}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderView, error) {
	view, err := q.readStore.FindByID(ctx, tenantID, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrInternal)
	}
	return view, nil
}
