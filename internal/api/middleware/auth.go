package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/raffle-web/internal/api/handler/v1/response"
	"github.com/vietanh2810/raffle-web/internal/auth"
	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/pkg/jwthelper"
	"github.com/vietanh2810/raffle-web/internal/service"
)

const authStoreKey = "auth_store"

var (
	ErrNotSignedIn    = errors.New("you need to sign in first")
	ErrAdminOnly      = errors.New("only admins can do that")
	errUserAgentDrift = errors.New("session was issued to another user agent")
)

// UserLookup re-reads the account behind a session on every request.
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	key        []byte
	cookieName string
	domain     string
	secure     bool
	ttl        time.Duration
	users      UserLookup
}

func NewAuthenticator(api *config.APIConfig, session *config.SessionConfig) *Authenticator {
	return &Authenticator{
		key:        []byte(api.JWTSigningKey),
		cookieName: session.CookieName,
		domain:     session.CookieDomain,
		secure:     session.CookieSecure,
		ttl:        api.TokenTTL,
	}
}

// WithUserLookup makes Hydrate drop sessions of deleted or suspended users.
func (a *Authenticator) WithUserLookup(users UserLookup) *Authenticator {
	a.users = users
	return a
}

// Hydrate gives every request its own auth.Store, hydrated once from the session cookie
// or a Bearer token. A bad session leaves the request unauthenticated and never fails it.
func (a *Authenticator) Hydrate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		decode := a.decoder(ctx.Request.UserAgent())
		store := auth.NewStore(a.source(ctx, decode), decode)
		store.Hydrate()
		ctx.Set(authStoreKey, store)
		a.checkAccount(ctx, store)

		ctx.Next()
	}
}

// source prefers the cookie over the Bearer token, but only while the cookie still decodes.
// When neither decodes, the first one is handed to the store so it gets logged and discarded.
func (a *Authenticator) source(ctx *gin.Context, decode auth.Decoder) auth.Source {
	return auth.SourceFunc(func() (string, error) {
		var candidates []string
		if cookie, err := ctx.Cookie(a.cookieName); err == nil && cookie != "" {
			candidates = append(candidates, cookie)
		}
		header := ctx.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			candidates = append(candidates, token)
		}

		if len(candidates) == 0 {
			return "", auth.ErrNoSession
		}
		for _, raw := range candidates {
			if _, _, err := decode(raw); err == nil {
				return raw, nil
			}
		}

		return candidates[0], nil
	})
}

func (a *Authenticator) checkAccount(ctx *gin.Context, store *auth.Store) {
	identity, ok := store.Identity()
	if !ok || a.users == nil {
		return
	}

	user, err := a.users.GetUser(ctx.Request.Context(), identity.UserID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		a.ClearSession(ctx)
	case err != nil:
		zap.L().Warn("could not check session account, continuing unauthenticated",
			zap.Uint("user_id", identity.UserID), zap.Error(err))
		store.Reset()
	case user.Status == domain.UserSuspended:
		a.ClearSession(ctx)
	}
}

func (a *Authenticator) decoder(userAgent string) auth.Decoder {
	return func(raw string) (auth.Identity, time.Time, error) {
		claims, err := jwthelper.ParseToken(a.key, raw)
		if err != nil {
			return auth.Identity{}, time.Time{}, fmt.Errorf("jwthelper.ParseToken -> %w", err)
		}
		if claims.UserAgent != userAgent {
			return auth.Identity{}, time.Time{}, errUserAgentDrift
		}

		id, err := claims.UserID()
		if err != nil {
			return auth.Identity{}, time.Time{}, err
		}

		return auth.Identity{
			UserID:     id,
			UserNumber: claims.UserNumber,
			Email:      claims.Email,
			Role:       claims.Role,
		}, claims.ExpiresAt.Time, nil
	}
}

// AuthStore returns the request's store. Outside Hydrate it hands back an empty, hydrated one.
func AuthStore(ctx *gin.Context) *auth.Store {
	if v, ok := ctx.Get(authStoreKey); ok {
		if store, ok := v.(*auth.Store); ok {
			return store
		}
	}

	store := auth.NewStore(nil, nil)
	store.Hydrate()
	ctx.Set(authStoreKey, store)

	return store
}

// IssueSession signs a token for user, sets the session cookie and signs the request's store in.
func (a *Authenticator) IssueSession(ctx *gin.Context, user domain.User) (string, error) {
	claims := jwthelper.Claims{
		UserNumber: user.UserNumber,
		Email:      user.Email,
		Role:       user.Role,
		UserAgent:  ctx.Request.UserAgent(),
	}

	token, expiresAt, err := jwthelper.GenerateToken(a.key, user.ID, claims, a.ttl)
	if err != nil {
		return "", fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(a.cookieName, token, int(a.ttl.Seconds()), "/", a.domain, a.secure, true)

	AuthStore(ctx).SignIn(auth.Identity{
		UserID:     user.ID,
		UserNumber: user.UserNumber,
		Email:      user.Email,
		Role:       user.Role,
	}, token, expiresAt)

	return token, nil
}

// ClearSession expires the session cookie and resets the request's store.
func (a *Authenticator) ClearSession(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(a.cookieName, "", -1, "/", a.domain, a.secure, true)

	AuthStore(ctx).Reset()
}

func RequireUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !AuthStore(ctx).Authenticated() {
			deny(ctx, response.ErrUnauthorized(ErrNotSignedIn))
			return
		}

		ctx.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := AuthStore(ctx).Identity()
		if !ok {
			deny(ctx, response.ErrUnauthorized(ErrNotSignedIn))
			return
		}
		if identity.Role != domain.RoleAdmin {
			deny(ctx, response.ErrPermissionDenied(ErrAdminOnly))
			return
		}

		ctx.Next()
	}
}

// deny answers API calls with JSON. Browsers are sent to the login page, or home when signed in.
func deny(ctx *gin.Context, e *response.Err) {
	if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
		response.RenderErr(ctx, e)
		return
	}

	target := "/login"
	if e.HTTPStatusCode == http.StatusForbidden {
		target = "/"
	}

	ctx.Redirect(http.StatusSeeOther, target)
	ctx.Abort()
}
