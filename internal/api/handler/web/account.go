package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/service"
	"github.com/vietanh2810/raffle-web/internal/view"
)

func (h *Handler) Account(ctx *gin.Context) {
	identity, ok := middleware.AuthStore(ctx).Identity()
	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	user, err := h.svc.Users.GetUser(ctx.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.authn.ClearSession(ctx)
			h.redirect(ctx, "error", "Your account no longer exists.", "/login")
			return
		}
		h.renderError(ctx, http.StatusInternalServerError, "Could not load your account.", fmt.Errorf("web.Account -> h.svc.Users.GetUser -> %w", err))
		return
	}
	if user.Status == domain.UserSuspended {
		h.authn.ClearSession(ctx)
		h.redirect(ctx, "error", "This account is suspended.", "/login")
		return
	}

	h.render(ctx, http.StatusOK, "page_account", "Account #"+user.UserNumber, view.AccountView{
		Stats: view.AccountStats(user),
	})
}
