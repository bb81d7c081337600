package errs

import "errors"

// Error kinds shared by every usecase. Attach with Mark, test with Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrExhausted  = errors.New("redemption limit reached")
	ErrExpired    = errors.New("expired")
	ErrBlocked    = errors.New("blocked")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")

	// Coupon failures are reported with this single message whatever the cause.
	ErrCouponNotApplicable = errors.New("coupon not applicable")
)

// Kind returns the first kind sentinel carried by err, or ErrInternal.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrExhausted, ErrExpired, ErrBlocked, ErrConflict} {
		if Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// RemainingAttemptsError carries how many tries a caller has left.
type RemainingAttemptsError struct {
	Remaining int
	Err       error
}

func (e *RemainingAttemptsError) Error() string { return e.Err.Error() }
func (e *RemainingAttemptsError) Unwrap() error { return e.Err }

func WithRemainingAttempts(err error, remaining int) error {
	return &RemainingAttemptsError{Remaining: remaining, Err: err}
}

// RemainingAttempts reports the count attached with WithRemainingAttempts.
func RemainingAttempts(err error) (int, bool) {
	var e *RemainingAttemptsError
	if As(err, &e) {
		return e.Remaining, true
	}
	return 0, false
}
