package api

import (
	"net/url"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/raffle-web/docs"
	v1 "github.com/vietanh2810/raffle-web/internal/api/handler/v1"
	"github.com/vietanh2810/raffle-web/internal/api/handler/web"
	"github.com/vietanh2810/raffle-web/internal/api/middleware"
	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/live"
	"github.com/vietanh2810/raffle-web/internal/repository"
	"github.com/vietanh2810/raffle-web/internal/repository/dao"
	"github.com/vietanh2810/raffle-web/internal/service"
	"github.com/vietanh2810/raffle-web/internal/view"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	authn *middleware.Authenticator
}

func NewServer(conf *config.AppConfig, db *gorm.DB, renderer *view.Renderer, hub *live.Hub) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		authn:  middleware.NewAuthenticator(conf.API, conf.Session),
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	itemRepo := repository.NewItemRepository(dao.NewItemDAO(db))

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	s.authn.WithUserLookup(userSvc)
	itemSvc := service.NewItemService(itemRepo, hub)
	statsSvc := service.NewStatsService(itemRepo, userRepo)

	authHandler := v1.NewAuthHandler(s.authn, authSvc)
	itemHandler := v1.NewItemHandler(itemSvc)
	webHandler := s.initWebHandler(renderer, web.Services{
		Auth:  authSvc,
		Items: itemSvc,
		Users: userSvc,
		Stats: statsSvc,
	})
	s.MountHandlers(authHandler, itemHandler, webHandler, hub)

	return s
}

func (s *Server) initWebHandler(renderer *view.Renderer, svc web.Services) *web.Handler {
	prefs := sessions.NewCookieStore([]byte(s.Config.Session.PrefsKey))
	prefs.Options = &sessions.Options{
		Path:     "/",
		Domain:   s.Config.Session.CookieDomain,
		MaxAge:   86400 * 30,
		Secure:   s.Config.Session.CookieSecure,
		HttpOnly: true,
	}

	return web.NewHandler(renderer, s.authn, prefs, s.Config.Session.PrefsName, svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.SecurityHeaders())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(s.authn.Hydrate())
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, itemHandler *v1.ItemHandler, webHandler *web.Handler, hub *live.Hub) {
	const basePath = "/api/v1"

	api := s.Router.Group(basePath)
	{
		api.POST("/auth/register", authHandler.HandleSignup)
		api.POST("/auth/login", authHandler.HandleLogin)
		api.POST("/auth/logout", authHandler.HandleLogout)
		api.GET("/auth/session", authHandler.HandleSession)

		api.GET("/items", itemHandler.HandleGetItems)
		api.GET("/items/:itemID", itemHandler.HandleGetItem)
	}

	pages := s.Router.Group("/", middleware.CSRF(
		[]byte(s.Config.Session.CSRFKey),
		s.Config.Session.CookieSecure,
		trustedOrigins(s.Config.API.AllowedCORSDomains),
	))
	webHandler.Routes(pages)

	s.Router.StaticFS("/static", view.Static())
	s.Router.GET("/ws/items", gin.WrapH(hub))
	s.Router.GET("/healthz", v1.HandleHealthcheck)
	s.Router.NoRoute(webHandler.NoRoute)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Raffle API"
	docs.SwaggerInfo.Description = "Public raffle listing and session endpoints."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// trustedOrigins turns CORS origins like "https://raffle.example" into the bare hosts csrf compares against.
func trustedOrigins(domains []string) []string {
	hosts := make([]string, 0, len(domains))
	for _, d := range domains {
		u, err := url.Parse(d)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}

	return hosts
}
