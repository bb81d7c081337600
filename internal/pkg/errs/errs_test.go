//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"retail-core/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMarkAndKind(t *testing.T) {
	t.Run("mark survives wrapping", func(t *testing.T) {
		base := errs.New("row missing")
		err := errs.Wrap(errs.Mark(base, errs.ErrNotFound), "load coupon")

		assert.True(t, errs.Is(err, errs.ErrNotFound))
		assert.Equal(t, errs.ErrNotFound, errs.Kind(err))
	})

	t.Run("unmarked error is internal", func(t *testing.T) {
		assert.Equal(t, errs.ErrInternal, errs.Kind(errors.New("boom")))
	})

	t.Run("mark on nil returns the mark", func(t *testing.T) {
		assert.Equal(t, errs.ErrConflict, errs.Mark(nil, errs.ErrConflict))
	})

	t.Run("two marks on one error", func(t *testing.T) {
		err := errs.Mark(errs.Mark(errs.New("window closed"), errs.ErrExpired), errs.ErrCouponNotApplicable)

		assert.True(t, errs.Is(err, errs.ErrExpired))
		assert.True(t, errs.Is(err, errs.ErrCouponNotApplicable))
		assert.Equal(t, errs.ErrExpired, errs.Kind(err))
	})
}

func TestRemainingAttempts(t *testing.T) {
	err := errs.Mark(errs.WithRemainingAttempts(errors.New("code does not match"), 2), errs.ErrValidation)

	n, ok := errs.RemainingAttempts(err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.True(t, errs.Is(err, errs.ErrValidation))

	_, ok = errs.RemainingAttempts(errors.New("plain"))
	assert.False(t, ok)
}
