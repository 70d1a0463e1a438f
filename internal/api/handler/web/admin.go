package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/vietanh2810/raffle-web/internal/api/handler/v1"
	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/request"
	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/service"
	"github.com/vietanh2810/raffle-web/internal/view"
)

func (h *Handler) AdminDashboard(ctx *gin.Context) {
	var f domain.ItemFilter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		h.renderError(ctx, http.StatusBadRequest, "Invalid filter.", err)
		return
	}
	f = request.ItemFilter(f)

	stats, err := h.svc.Stats.Dashboard(ctx.Request.Context())
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not load the dashboard.", fmt.Errorf("web.AdminDashboard -> h.svc.Stats.Dashboard -> %w", err))
		return
	}

	items, err := h.svc.Items.ListAdmin(ctx.Request.Context(), f)
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not load the dashboard.", fmt.Errorf("web.AdminDashboard -> h.svc.Items.ListAdmin -> %w", err))
		return
	}

	h.render(ctx, http.StatusOK, "page_admin", "Dashboard", view.AdminView{
		Stats:     view.DashboardStats(stats),
		Filter:    f,
		Items:     items,
		CSRFField: middleware.CSRFField(ctx),
	})
}

func (h *Handler) AdminCreateItem(ctx *gin.Context) {
	var req request.CreateItemRequest
	if err := ctx.ShouldBind(&req); err != nil {
		h.redirect(ctx, "error", "Please check the item fields.", "/admin")
		return
	}
	if err := req.Validate(); err != nil {
		h.redirect(ctx, "error", err.Error(), "/admin")
		return
	}

	item, err := h.svc.Items.CreateItem(ctx.Request.Context(), req.Item())
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not create the item.", fmt.Errorf("web.AdminCreateItem -> h.svc.Items.CreateItem -> %w", err))
		return
	}

	h.redirect(ctx, "success", fmt.Sprintf("%s is now on sale.", item.Name), "/admin")
}

func (h *Handler) AdminSellTickets(ctx *gin.Context) {
	id, err := v1.ParseID(ctx, "itemID")
	if err != nil {
		h.renderError(ctx, http.StatusNotFound, "This item does not exist.", err)
		return
	}

	var req request.SellTicketsRequest
	if err = ctx.ShouldBind(&req); err != nil {
		h.redirect(ctx, "error", "Ticket count must be a number.", "/admin")
		return
	}
	if err = req.Validate(); err != nil {
		h.redirect(ctx, "error", err.Error(), "/admin")
		return
	}

	item, err := h.svc.Items.SellTickets(ctx.Request.Context(), id, req.Count)
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		h.renderError(ctx, http.StatusNotFound, "This item does not exist.", err)
	case errors.Is(err, service.ErrItemCompleted):
		h.redirect(ctx, "error", "This raffle is already sold out.", "/admin")
	case errors.Is(err, service.ErrNotEnoughTickets):
		h.redirect(ctx, "error", "Not enough tickets left.", "/admin")
	case err != nil:
		h.renderError(ctx, http.StatusInternalServerError, "Could not record the sale.", fmt.Errorf("web.AdminSellTickets -> h.svc.Items.SellTickets -> %w", err))
	case item.Status == domain.ItemCompleted:
		h.redirect(ctx, "success", fmt.Sprintf("%s is sold out.", item.Name), "/admin")
	default:
		h.redirect(ctx, "success", fmt.Sprintf("Recorded %d ticket(s) for %s.", req.Count, item.Name), "/admin")
	}
}

func (h *Handler) AdminUsers(ctx *gin.Context) {
	users, err := h.svc.Users.ListUsers(ctx.Request.Context(), domain.UserStatus(ctx.Query("status")))
	if err != nil {
		h.renderError(ctx, http.StatusInternalServerError, "Could not load users.", fmt.Errorf("web.AdminUsers -> h.svc.Users.ListUsers -> %w", err))
		return
	}

	h.render(ctx, http.StatusOK, "page_admin_users", "Users", view.AdminUsersView{
		Users:     users,
		CSRFField: middleware.CSRFField(ctx),
	})
}

func (h *Handler) AdminSetUserStatus(ctx *gin.Context) {
	id, err := v1.ParseID(ctx, "userID")
	if err != nil {
		h.renderError(ctx, http.StatusNotFound, "This user does not exist.", err)
		return
	}

	var req request.UserStatusRequest
	if err = ctx.ShouldBind(&req); err != nil {
		h.redirect(ctx, "error", "Invalid status.", "/admin/users")
		return
	}
	if err = req.Validate(); err != nil {
		h.redirect(ctx, "error", err.Error(), "/admin/users")
		return
	}

	if identity, _ := middleware.AuthStore(ctx).Identity(); identity.UserID == id {
		h.redirect(ctx, "error", "You cannot change your own status.", "/admin/users")
		return
	}

	user, err := h.svc.Users.SetStatus(ctx.Request.Context(), id, domain.UserStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.renderError(ctx, http.StatusNotFound, "This user does not exist.", err)
			return
		}
		h.renderError(ctx, http.StatusInternalServerError, "Could not update the user.", fmt.Errorf("web.AdminSetUserStatus -> h.svc.Users.SetStatus -> %w", err))
		return
	}

	h.redirect(ctx, "success", fmt.Sprintf("User #%s is now %s.", user.UserNumber, user.Status), "/admin/users")
}
