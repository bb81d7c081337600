//go:build unit

package money_test

import (
	"testing"

	"retail-core/internal/domain/money"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "1.005", want: "1.01"},
		{in: "1.004", want: "1.00"},
		{in: "2.675", want: "2.68"},
		{in: "0", want: "0.00"},
		{in: "99.995", want: "100.00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, money.Format(money.Round2(money.MustParse(tc.in))))
		})
	}
}

func TestFloorZeroAndMin(t *testing.T) {
	assert.True(t, money.FloorZero(money.MustParse("-3.10")).IsZero())
	assert.Equal(t, "3.10", money.Format(money.FloorZero(money.MustParse("3.10"))))
	assert.Equal(t, "1.00", money.Format(money.Min(money.MustParse("1"), money.MustParse("2"))))
}

func TestFits(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   error
	}{
		{in: "0", places: money.Scale, want: nil},
		{in: "19.990", places: money.Scale, want: nil},
		{in: "9999999999.99", places: money.Scale, want: nil},
		{in: "10000000000", places: money.Scale, want: money.ErrAmountTooLarge},
		{in: "-0.01", places: money.Scale, want: money.ErrNegativeAmount},
		{in: "1.005", places: money.Scale, want: money.ErrTooManyDecimals},
		{in: "1.0005", places: money.UnitPriceScale, want: nil},
		{in: "1.00005", places: money.UnitPriceScale, want: money.ErrTooManyDecimals},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			err := money.Fits(money.MustParse(tc.in), tc.places)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
