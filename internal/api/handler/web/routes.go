package web

import (
	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/raffle-web/internal/api/middleware"
)

// Routes mounts the pages on r. r is expected to carry the CSRF and hydration middlewares.
func (h *Handler) Routes(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/items/:itemID", h.Item)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)

	account := r.Group("/account", middleware.RequireUser())
	{
		account.GET("", h.Account)
	}

	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("", h.AdminDashboard)
		admin.POST("/items", h.AdminCreateItem)
		admin.POST("/items/:itemID/tickets", h.AdminSellTickets)
		admin.GET("/users", h.AdminUsers)
		admin.POST("/users/:userID/status", h.AdminSetUserStatus)
	}
}
