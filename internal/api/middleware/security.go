package middleware

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		h := ctx.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self' ws: wss:")

		ctx.Next()
	}
}

// CSRF runs gorilla/csrf inside the gin chain. A rejected request stops the chain
// after csrf has written its 403.
func CSRF(key []byte, secure bool, trustedOrigins []string) gin.HandlerFunc {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName("csrf_token"),
		csrf.TrustedOrigins(trustedOrigins),
	)

	return func(ctx *gin.Context) {
		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			ctx.Request = r
			ctx.Next()
		})).ServeHTTP(ctx.Writer, ctx.Request)

		if !passed {
			ctx.Abort()
		}
	}
}

// CSRFField is the hidden input forms embed. It is empty outside the CSRF middleware.
func CSRFField(ctx *gin.Context) template.HTML {
	return csrf.TemplateField(ctx.Request)
}
