//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"retail-core/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	rows, _ := mockArgs.Get(0).(pgx.Rows)
	return rows, mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

func (m *MockDBTX) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	mockArgs := m.Called(ctx, b)
	return mockArgs.Get(0).(pgx.BatchResults)
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func errRow(err error) rowFunc {
	return func(...any) error { return err }
}

func TestCouponReadStore_FindByCode(t *testing.T) {
	ends := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name          string
		row           rowFunc
		wantKind      infra.RepositoryErrorKind
		wantRemaining *int
	}{
		{
			name: "limited coupon reports remaining uses",
			row: func(dest ...any) error {
				*dest[0].(*string) = "SAVE10"
				*dest[1].(*string) = "Spring sale"
				*dest[3].(*string) = "percentage"
				*dest[4].(*decimal.Decimal) = decimal.NewFromInt(10)
				*dest[7].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: ends, Valid: true}
				*dest[8].(*int) = 5
				*dest[9].(*int) = 3
				*dest[13].(*bool) = true
				return nil
			},
			wantRemaining: intPtr(2),
		},
		{
			name: "unlimited coupon has no remaining count",
			row: func(dest ...any) error {
				*dest[0].(*string) = "FREESHIP"
				*dest[8].(*int) = 0
				*dest[9].(*int) = 40
				*dest[13].(*bool) = true
				return nil
			},
		},
		{name: "not found", row: errRow(pgx.ErrNoRows), wantKind: infra.KindNotFound},
		{name: "database error", row: errRow(assert.AnError), wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockDBTX)
			db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(tt.row)

			view, err := NewCouponReadStore(db).FindByCode(context.Background(), uuid.New(), "save10")

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
				assert.Nil(t, view)
				return
			}
			require.NoError(t, err)
			assert.True(t, view.Active)
			assert.Equal(t, tt.wantRemaining, view.RemainingUses)
			if view.Code == "SAVE10" {
				require.NotNil(t, view.EndsAt)
				assert.Equal(t, ends, *view.EndsAt)
				assert.Nil(t, view.StartsAt)
			}
		})
	}
}

func TestRemainingUses(t *testing.T) {
	assert.Nil(t, remainingUses(0, 7))
	assert.Equal(t, 4, *remainingUses(5, 1))
	assert.Equal(t, 0, *remainingUses(2, 2))
	assert.Equal(t, 0, *remainingUses(2, 3))
}

func TestVerificationReadStore_FindStatus(t *testing.T) {
	companyID := uuid.New()

	t.Run("promoted", func(t *testing.T) {
		db := new(MockDBTX)
		db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(rowFunc(func(dest ...any) error {
			*dest[1].(*string) = "verified"
			*dest[2].(*bool) = true
			*dest[3].(*bool) = true
			*dest[4].(*int) = 3
			*dest[6].(*pgtype.UUID) = pgtype.UUID{Bytes: companyID, Valid: true}
			return nil
		}))

		view, err := NewVerificationReadStore(db).FindStatus(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, "verified", view.Status)
		assert.Equal(t, 3, view.RemainingAttempts)
		require.NotNil(t, view.PromotedCompanyID)
		assert.Equal(t, companyID, *view.PromotedCompanyID)
	})

	t.Run("not found", func(t *testing.T) {
		db := new(MockDBTX)
		db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(errRow(pgx.ErrNoRows))

		_, err := NewVerificationReadStore(db).FindStatus(context.Background(), uuid.New())

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestPaymentReadStore_FindByID(t *testing.T) {
	t.Run("history decoded in order", func(t *testing.T) {
		history := []byte(`[
			{"attemptNumber":1,"failedAt":"2026-03-15T12:00:00Z","code":"card_declined","message":"declined"},
			{"attemptNumber":2,"failedAt":"2026-03-15T12:05:00Z","code":"insufficient_funds","message":"no funds"}
		]`)
		db := new(MockDBTX)
		db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(rowFunc(func(dest ...any) error {
			*dest[2].(*string) = "subscription"
			*dest[7].(*string) = "success"
			*dest[11].(*int) = 3
			*dest[12].(*[]byte) = history
			*dest[23].(*pgtype.Int8) = pgtype.Int8{Int64: 1500, Valid: true}
			return nil
		}))

		report, err := NewPaymentReadStore(db).FindByID(context.Background(), uuid.New(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, 3, report.AttemptNumber)
		require.Len(t, report.PreviousAttempts, 2)
		assert.Equal(t, "card_declined", report.PreviousAttempts[0].Code)
		assert.Equal(t, 2, report.PreviousAttempts[1].AttemptNumber)
		require.NotNil(t, report.ProcessingDurationMs)
		assert.Equal(t, int64(1500), *report.ProcessingDurationMs)
	})

	t.Run("not found", func(t *testing.T) {
		db := new(MockDBTX)
		db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(errRow(pgx.ErrNoRows))

		_, err := NewPaymentReadStore(db).FindByID(context.Background(), uuid.New(), uuid.New())

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("list query failure", func(t *testing.T) {
		db := new(MockDBTX)
		db.On("Query", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

		_, err := NewPaymentReadStore(db).ListFirstPage(context.Background(), uuid.New(), nil, 21)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestOrderReadStore_FindByID_NotFound(t *testing.T) {
	db := new(MockDBTX)
	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(errRow(pgx.ErrNoRows))

	_, err := NewOrderReadStore(db).FindByID(context.Background(), uuid.New(), uuid.New())

	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func intPtr(v int) *int { return &v }
