//go:build unit

package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	notApplicable := errs.Mark(errs.Mark(errors.New("below minimum"), errs.ErrCouponNotApplicable), errs.ErrValidation)
	exhausted := errs.Mark(errs.Mark(errors.New("no slots"), errs.ErrCouponNotApplicable), errs.ErrExhausted)
	repoConflict := errs.Mark(infra.WrapRepoErr("payment attempt changed concurrently", nil, infra.KindConflict), errs.ErrConflict)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "coupon not applicable", err: notApplicable, wantStatus: http.StatusUnprocessableEntity, wantMsg: "coupon not applicable"},
		{name: "coupon exhausted", err: exhausted, wantStatus: http.StatusConflict, wantMsg: "coupon not applicable"},
		{name: "validation", err: errs.Mark(errors.New("invalid email"), errs.ErrValidation), wantStatus: http.StatusBadRequest, wantMsg: "invalid email"},
		{name: "not found", err: errs.Mark(errors.New("order not found"), errs.ErrNotFound), wantStatus: http.StatusNotFound, wantMsg: "order not found"},
		{name: "repository conflict hides details", err: repoConflict, wantStatus: http.StatusConflict, wantMsg: "Conflicting request, please retry"},
		{name: "expired", err: errs.Mark(errors.New("verification expired"), errs.ErrExpired), wantStatus: http.StatusGone, wantMsg: "verification expired"},
		{name: "blocked", err: errs.Mark(errors.New("too many attempts"), errs.ErrBlocked), wantStatus: http.StatusLocked, wantMsg: "too many attempts"},
		{name: "internal", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := StatusOf(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestAbort_RemainingAttempts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	err := errs.Mark(errs.WithRemainingAttempts(errors.New("code mismatch"), 2), errs.ErrValidation)
	Abort(c, err)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail struct {
			RemainingAttempts int `json:"remainingAttempts"`
		} `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "code mismatch", body.Error.Message)
	assert.Equal(t, 2, body.Detail.RemainingAttempts)
}
