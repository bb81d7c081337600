package httperr

import (
	"errors"
	"net/http"

	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	msgCouponNotApplicable = "coupon not applicable"
	msgInternal            = "Internal server error"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort answers with the status that matches the error kind carried by err.
func Abort(c *gin.Context, err error) {
	status, msg := StatusOf(err)

	var detail any
	if remaining, ok := errs.RemainingAttempts(err); ok {
		detail = gin.H{"remainingAttempts": remaining}
	}
	AbortWithError(c, status, err, msg, detail)
}

// StatusOf maps an error kind to its HTTP status and public message.
// Coupon failures always share one message whatever the underlying cause.
func StatusOf(err error) (int, string) {
	if errs.Is(err, errs.ErrCouponNotApplicable) {
		if errs.Is(err, errs.ErrExhausted) {
			return http.StatusConflict, msgCouponNotApplicable
		}
		return http.StatusUnprocessableEntity, msgCouponNotApplicable
	}

	switch errs.Kind(err) {
	case errs.ErrValidation:
		return http.StatusBadRequest, publicMessage(err, "Invalid request")
	case errs.ErrNotFound:
		return http.StatusNotFound, publicMessage(err, "Not found")
	case errs.ErrExhausted:
		return http.StatusConflict, publicMessage(err, "Limit reached")
	case errs.ErrConflict:
		return http.StatusConflict, publicMessage(err, "Conflicting request, please retry")
	case errs.ErrExpired:
		return http.StatusGone, publicMessage(err, "Expired")
	case errs.ErrBlocked:
		return http.StatusLocked, publicMessage(err, "Blocked")
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// Repository errors never reach clients verbatim.
func publicMessage(err error, fallback string) string {
	var repoErr infra.RepositoryError
	if errors.As(err, &repoErr) {
		return fallback
	}
	return err.Error()
}
