package queries

import (
	"context"

	"retail-core/internal/infra"
	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrVerificationNotFound = errs.Mark(errs.New("verification not found"), errs.ErrNotFound)

type VerificationReadStore interface {
	FindStatus(ctx context.Context, id uuid.UUID) (*VerificationStatusView, error)
}

type VerificationQueries interface {
	Status(ctx context.Context, id uuid.UUID) (*VerificationStatusView, error)
}

type verificationQueriesImpl struct {
	readStore VerificationReadStore
	clock     clock.Clock
}

func NewVerificationQueries(readStore VerificationReadStore, clk clock.Clock) VerificationQueries {
	return &verificationQueriesImpl{readStore: readStore, clock: clk}
}

// Status reports a pending window that has run out as expired. Only a check persists that.
func (q *verificationQueriesImpl) Status(ctx context.Context, id uuid.UUID) (*VerificationStatusView, error) {
	view, err := q.readStore.FindStatus(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, errs.Mark(err, errs.ErrInternal)
	}
	if view.Status == "pending" && q.clock.Now().After(view.ExpiresAt) {
		view.Status = "expired"
	}
	if view.RemainingAttempts < 0 {
		view.RemainingAttempts = 0
	}
	return view, nil
}
