package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/response"
	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/view"
)

func (h *Handler) LoginForm(ctx *gin.Context) {
	if middleware.AuthStore(ctx).Authenticated() {
		ctx.Redirect(http.StatusSeeOther, "/account")
		return
	}

	h.renderAuthForm(ctx, http.StatusOK, "page_login", "Log in", domain.AuthFormData{})
}

func (h *Handler) Login(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		h.redirect(ctx, "error", "Please fill in your email and password.", "/login")
		return
	}
	if err := req.Validate(); err != nil {
		h.redirect(ctx, "error", err.Error(), "/login")
		return
	}

	user, err := h.svc.Auth.Login(ctx.Request.Context(), req.Form())
	if err != nil {
		status, resp := response.AuthOutcome(err)
		if status >= http.StatusInternalServerError {
			h.renderError(ctx, status, resp.Message, fmt.Errorf("web.Login -> h.svc.Auth.Login -> %w", err))
			return
		}
		h.redirect(ctx, "error", resp.Message, "/login")
		return
	}

	if _, err = h.authn.IssueSession(ctx, user); err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not sign you in.", fmt.Errorf("web.Login -> h.authn.IssueSession -> %w", err))
		return
	}

	_, resp := response.AuthOutcome(nil)
	target := "/account"
	if user.IsAdmin() {
		target = "/admin"
	}
	h.redirect(ctx, "success", resp.Message, target)
}

func (h *Handler) RegisterForm(ctx *gin.Context) {
	if middleware.AuthStore(ctx).Authenticated() {
		ctx.Redirect(http.StatusSeeOther, "/account")
		return
	}

	h.renderAuthForm(ctx, http.StatusOK, "page_register", "Register", domain.AuthFormData{})
}

func (h *Handler) Register(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		h.redirect(ctx, "error", "Please fill in your email and password.", "/register")
		return
	}
	if err := req.Validate(); err != nil {
		h.flash(ctx, "error", err.Error())
		h.renderAuthForm(ctx, http.StatusUnprocessableEntity, "page_register", "Register", domain.AuthFormData{Email: req.Email})
		return
	}

	user, err := h.svc.Auth.Signup(ctx.Request.Context(), req.Form())
	if err != nil {
		status, resp := response.AuthOutcome(err)
		if status >= http.StatusInternalServerError {
			h.renderError(ctx, status, resp.Message, fmt.Errorf("web.Register -> h.svc.Auth.Signup -> %w", err))
			return
		}
		h.redirect(ctx, "error", resp.Message, "/register")
		return
	}

	if _, err = h.authn.IssueSession(ctx, user); err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not sign you in.", fmt.Errorf("web.Register -> h.authn.IssueSession -> %w", err))
		return
	}

	h.redirect(ctx, "success", fmt.Sprintf("Welcome! Your user number is %s.", user.UserNumber), "/account")
}

func (h *Handler) Logout(ctx *gin.Context) {
	h.authn.ClearSession(ctx)
	h.redirect(ctx, "info", "You are signed out.", "/")
}

func (h *Handler) renderAuthForm(ctx *gin.Context, status int, page, title string, form domain.AuthFormData) {
	action, submit := "/login", "Log in"
	if page == "page_register" {
		action, submit = "/register", "Create account"
	}

	form.Password = ""
	h.render(ctx, status, page, title, view.AuthFormView{
		Action:    action,
		Submit:    submit,
		Form:      form,
		CSRFField: middleware.CSRFField(ctx),
	})
}
