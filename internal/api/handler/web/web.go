// Package web serves the server-rendered pages. Every handler reads the request's
// hydrated auth.Store and renders through view.Renderer.
package web

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/view"
)

const filterKey = "filter"

func init() {
	gob.Register(domain.PublicFilter{})
	gob.Register(view.Flash{})
}

type AuthService interface {
	Signup(ctx context.Context, form domain.AuthFormData) (domain.User, error)
	Login(ctx context.Context, form domain.AuthFormData) (domain.User, error)
}

type ItemService interface {
	GetItem(ctx context.Context, id uint) (domain.Item, error)
	ListPublic(ctx context.Context, f domain.PublicFilter) ([]domain.PublicItem, error)
	ListAdmin(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error)
	Categories(ctx context.Context) ([]string, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	SellTickets(ctx context.Context, id uint, n int) (domain.Item, error)
}

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context, status domain.UserStatus) ([]domain.User, error)
	SetStatus(ctx context.Context, id uint, status domain.UserStatus) (domain.User, error)
}

type StatsService interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
}

type Services struct {
	Auth  AuthService
	Items ItemService
	Users UserService
	Stats StatsService
}

type Handler struct {
	renderer  *view.Renderer
	authn     *middleware.Authenticator
	prefs     sessions.Store
	prefsName string
	svc       Services
}

func NewHandler(renderer *view.Renderer, authn *middleware.Authenticator, prefs sessions.Store, prefsName string, svc Services) *Handler {
	return &Handler{
		renderer:  renderer,
		authn:     authn,
		prefs:     prefs,
		prefsName: prefsName,
		svc:       svc,
	}
}

// session returns the prefs session. An unreadable cookie yields a fresh session.
func (h *Handler) session(ctx *gin.Context) *sessions.Session {
	session, err := h.prefs.Get(ctx.Request, h.prefsName)
	if err != nil {
		zap.L().Debug("discarding unreadable prefs cookie", zap.Error(err))
	}

	return session
}

func (h *Handler) save(ctx *gin.Context, session *sessions.Session) {
	if err := session.Save(ctx.Request, ctx.Writer); err != nil {
		zap.L().Warn("failed to save prefs cookie", zap.String("request_id", requestid.Get(ctx)), zap.Error(err))
	}
}

func (h *Handler) flash(ctx *gin.Context, kind, message string) {
	session := h.session(ctx)
	session.AddFlash(view.Flash{Type: kind, Message: message})
	h.save(ctx, session)
}

func (h *Handler) redirect(ctx *gin.Context, kind, message, location string) {
	h.flash(ctx, kind, message)
	ctx.Redirect(http.StatusSeeOther, location)
}

func (h *Handler) popFlashes(ctx *gin.Context) []view.Flash {
	session := h.session(ctx)

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	h.save(ctx, session)

	flashes := make([]view.Flash, 0, len(raw))
	for _, f := range raw {
		if fl, ok := f.(view.Flash); ok {
			flashes = append(flashes, fl)
		}
	}

	return flashes
}

func (h *Handler) render(ctx *gin.Context, status int, page, title string, data any) {
	pd := view.PageData{
		Title:     title,
		Auth:      middleware.AuthStore(ctx).State(),
		Flashes:   h.popFlashes(ctx),
		CSRFField: middleware.CSRFField(ctx),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, page, pd); err != nil {
		zap.L().Error("failed to render page",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("page", page),
			zap.Error(err),
		)
		ctx.String(http.StatusInternalServerError, "Something went wrong.")
		return
	}

	ctx.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// renderError shows a bare error page. Details of server errors only reach the log.
func (h *Handler) renderError(ctx *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err),
		)
	}

	h.render(ctx, status, "page_error", http.StatusText(status), message)
	ctx.Abort()
}

// NoRoute renders the not found page for unknown paths.
func (h *Handler) NoRoute(ctx *gin.Context) {
	h.renderError(ctx, http.StatusNotFound, "This page does not exist.", nil)
}
