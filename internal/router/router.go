package router

import (
	"net/http"

	"alumni/internal/handlers"
	"alumni/internal/middleware"
	"alumni/internal/services"
	"alumni/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps carries everything the routes need.
type Deps struct {
	DB        *gorm.DB
	Users     *services.UserService
	Posts     *services.PostService
	Bootstrap *services.BootstrapService
	Sessions  middleware.SessionConfig
	Registry  *prometheus.Registry // nil disables /metrics
	Log       logrus.FieldLogger
}

// New assembles the engine with its global middleware and routes.
func New(d Deps) (*gin.Engine, error) {
	render, err := web.Templates(web.FuncMap())
	if err != nil {
		return nil, err
	}
	store, err := middleware.NewSessionStore(d.DB, d.Sessions)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.HTMLRender = render
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	if d.Registry != nil {
		r.Use(middleware.NewMetrics(d.Registry).Handler())
	}
	r.Use(sessions.Sessions(middleware.SessionName, store))

	RegisterRoutes(r, d)
	return r, nil
}

// RegisterRoutes expects the session middleware to be installed already.
func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(d.Users, d.Sessions.CookieOptions(), d.Log)
	userHandler := handlers.NewUserHandler(d.Users, d.Posts, d.Log)
	postHandler := handlers.NewPostHandler(d.Posts, d.Log)
	adminHandler := handlers.NewAdminHandler(d.Bootstrap, d.DB, d.Log)
	seoHandler := handlers.NewSEOHandler()

	// 运维路由 (Operator Routes)
	r.GET("/healthz", adminHandler.Healthz)
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}
	r.StaticFS("/static", http.FS(web.Static()))
	r.NoRoute(func(c *gin.Context) {
		handlers.RenderError(c, http.StatusNotFound, "Page not found.")
	})

	app := r.Group("/")
	app.Use(middleware.LoadUser(d.Users, d.Log))

	// 公共路由 (Public Routes)
	app.GET("/", postHandler.Feed)                   // 首页 - 最新动态
	app.GET("/p/:id", postHandler.Detail)            // 帖子详情页
	app.GET("/u/:id", userHandler.Public)            // 校友主页
	app.GET("/search", userHandler.ShowSearch)       // 搜索页面
	app.POST("/search", userHandler.Search)          // 提交搜索
	app.GET("/init_sample", adminHandler.InitSample) // 初始化示例数据

	app.GET("/register", authHandler.ShowRegister) // 注册页面
	app.POST("/register", authHandler.Register)    // 提交注册
	app.GET("/login", authHandler.ShowLogin)       // 登录页面
	app.POST("/login", authHandler.Login)          // 提交登录
	app.GET("/logout", authHandler.Logout)         // 退出登录

	// 受保护路由 (Protected Routes)
	profile := middleware.AuthRequired("Please login to access your profile.")
	app.GET("/profile", profile, userHandler.Profile)
	app.POST("/profile", profile, userHandler.UpdateProfile)

	app.POST("/create_post", middleware.AuthRequired("Please login to post."), postHandler.Create)
	app.POST("/p/:id/like", middleware.AuthRequired("Please login to like posts."), postHandler.Like)
	app.POST("/p/:id/comment", middleware.AuthRequired("Please login to comment."), postHandler.Comment)
}
