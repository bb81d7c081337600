package api

import (
	"net/http"

	reqdto "retail-core/internal/handler/dto/request"
	resdto "retail-core/internal/handler/dto/response"
	"retail-core/internal/handler/httperr"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	verificationCommands commands.VerificationCommands
	verificationQueries  queries.VerificationQueries
}

func NewVerificationHandler(verificationCommands commands.VerificationCommands, verificationQueries queries.VerificationQueries) *VerificationHandler {
	return &VerificationHandler{
		verificationCommands: verificationCommands,
		verificationQueries:  verificationQueries,
	}
}

// @Summary Start signup verification
// @Description Send one code by email and one by SMS
// @Tags signup
// @Accept json
// @Produce json
// @Param request body reqdto.StartVerificationRequest true "Signup"
// @Success 201 {object} resdto.VerificationStartedResponse
// @Failure 400 {object} httperr.Response
// @Router /signup/verifications [post]
func (h *VerificationHandler) Start(c *gin.Context) {
	var req reqdto.StartVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.verificationCommands.Start(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromVerification(v))
}

// @Summary Check a code
// @Tags signup
// @Accept json
// @Produce json
// @Param id path string true "Verification ID"
// @Param request body reqdto.CheckCodeRequest true "Code"
// @Success 200 {object} resdto.CheckCodeResponse
// @Failure 400 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 423 {object} httperr.Response
// @Router /signup/verifications/{id}/check [post]
func (h *VerificationHandler) Check(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.CheckCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.verificationCommands.Check(c.Request.Context(), commands.CheckCodeRequest{
		VerificationID: id,
		Channel:        req.Channel,
		Code:           req.Code,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckResult(result))
}

// @Summary Resend a code
// @Tags signup
// @Accept json
// @Param id path string true "Verification ID"
// @Param request body reqdto.ResendCodeRequest true "Channel"
// @Success 202
// @Failure 409 {object} httperr.Response
// @Router /signup/verifications/{id}/resend [post]
func (h *VerificationHandler) Resend(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req reqdto.ResendCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.verificationCommands.Resend(c.Request.Context(), id, req.Channel); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// @Summary Promote a verified signup
// @Description Create the company and its owner; replays return the same company
// @Tags signup
// @Produce json
// @Param id path string true "Verification ID"
// @Success 200 {object} resdto.PromoteResponse
// @Failure 409 {object} httperr.Response
// @Router /signup/verifications/{id}/promote [post]
func (h *VerificationHandler) Promote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	companyID, err := h.verificationCommands.Promote(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.PromoteResponse{CompanyID: companyID})
}

// @Summary Verification status
// @Tags signup
// @Produce json
// @Param id path string true "Verification ID"
// @Success 200 {object} resdto.VerificationStatusResponse
// @Failure 404 {object} httperr.Response
// @Router /signup/verifications/{id} [get]
func (h *VerificationHandler) Status(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.verificationQueries.Status(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromVerificationStatus(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
