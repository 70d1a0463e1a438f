package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/response"
	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, form domain.AuthFormData) (domain.User, error)
	Login(ctx context.Context, form domain.AuthFormData) (domain.User, error)
}

type AuthHandler struct {
	authn *middleware.Authenticator
	svc   AuthService
}

func NewAuthHandler(authn *middleware.Authenticator, svc AuthService) *AuthHandler {
	return &AuthHandler{
		authn: authn,
		svc:   svc,
	}
}

// HandleSignup godoc
// @Summary      Register a new user and sign them in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   domain.AuthResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   domain.AuthResponse
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), req.Form())
	if err != nil {
		h.renderAuthErr(ctx, fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err))
		return
	}

	token, err := h.authn.IssueSession(ctx, user)
	if err != nil {
		err = fmt.Errorf("v1.HandleSignup -> h.authn.IssueSession -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, domain.AuthResponse{
		Success: true,
		Message: "Account created.",
		Token:   token,
	})
}

// HandleLogin godoc
// @Summary      Log a user in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   domain.AuthResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   domain.AuthResponse
// @Failure      403      {object}   domain.AuthResponse
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Form())
	if err != nil {
		h.renderAuthErr(ctx, fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err))

		return
	}

	token, err := h.authn.IssueSession(ctx, user)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> h.authn.IssueSession -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	_, resp := response.AuthOutcome(nil)
	resp.Token = token
	ctx.JSON(http.StatusOK, resp)
}

// HandleLogout godoc
// @Summary      Clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200      {object}   domain.AuthResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	h.authn.ClearSession(ctx)

	ctx.JSON(http.StatusOK, domain.AuthResponse{Success: true, Message: "Signed out."})
}

// HandleSession godoc
// @Summary      Current authentication state
// @Description  Returns the state hydrated from the session cookie or Bearer token. An invalid session reads as unauthenticated.
// @Tags         auth
// @Produce      json
// @Success      200      {object}   auth.State
// @Router       /auth/session [get]
func (h *AuthHandler) HandleSession(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, middleware.AuthStore(ctx).State())
}

func (h *AuthHandler) renderAuthErr(ctx *gin.Context, err error) {
	status, resp := response.AuthOutcome(err)
	if status >= http.StatusInternalServerError {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.AbortWithStatusJSON(status, resp)
}
