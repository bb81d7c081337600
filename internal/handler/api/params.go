package api

import (
	"net/http"

	"retail-core/internal/handler/httperr"
	"retail-core/internal/handler/middleware"
	"retail-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errMissingTenant  = errs.New("tenant scope missing from request context")
	errInvalidID      = errs.New("invalid id")
	errInvalidPayload = errs.New("invalid request body")
)

// tenantFrom only fails when RequireTenant did not run, which is a routing bug.
func tenantFrom(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingTenant, "Internal server error", nil)
		return uuid.Nil, false
	}
	return tenantID, true
}

func idParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(err, errInvalidID.Error()), "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}

type validatable interface {
	Validate() error
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(err, errInvalidPayload.Error()), "Invalid request format", nil)
		return false
	}
	if v, ok := dst.(validatable); ok {
		if err := v.Validate(); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(err, errInvalidPayload.Error()), err.Error(), nil)
			return false
		}
	}
	return true
}
