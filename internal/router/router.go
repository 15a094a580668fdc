package router

import (
	"html/template"
	"net/http"

	"github.com/c-victorino/dishcord-web-app/internal/config"
	"github.com/c-victorino/dishcord-web-app/internal/handler"
	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/repository"
	"github.com/c-victorino/dishcord-web-app/internal/service"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine, templates, static resources
// and the full route table.
func SetupRouter(cfg *config.Config, db *gorm.DB, users *repository.MongoUserStore, uploader handler.Uploader, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.Session(cfg.JWT.Secret, users),
		middleware.Locals(),
	)

	// template helpers, static files and templates
	r.SetFuncMap(template.FuncMap{
		"safeHTML":   util.SafeHTML,
		"formatDate": util.FormatDate,
		"str":        util.Str,
	})
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	authService := service.NewAuthService(users)
	contentService := service.NewContentService(db)

	authHandler := handler.NewAuthHandler(authService, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireMinutes)
	blogHandler := handler.NewBlogHandler(authService, contentService, cfg.App.PostsPerPage)
	postHandler := handler.NewPostHandler(contentService, uploader)
	categoryHandler := handler.NewCategoryHandler(contentService)
	exportHandler := handler.NewExportHandler(contentService)

	// public pages
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/home") })
	r.GET("/home", blogHandler.Home)
	r.GET("/blog", blogHandler.Blog)
	r.GET("/blog/:id", blogHandler.BlogPost)

	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/logout", authHandler.Logout)

	// pages behind the login gate
	protected := r.Group("", middleware.RequireLogin())

	protected.GET("/posts", postHandler.List)
	protected.GET("/post/:id", postHandler.Get)
	protected.GET("/posts/add", postHandler.NewForm)
	protected.POST("/posts/add", postHandler.Create)
	protected.GET("/posts/edit/:id", postHandler.EditForm)
	protected.POST("/posts/edit/:id", postHandler.Update)
	protected.GET("/posts/delete/:id", postHandler.Delete)
	protected.GET("/posts/export/csv", exportHandler.CSV)
	protected.GET("/posts/export/xlsx", exportHandler.XLSX)

	protected.GET("/categories", categoryHandler.List)
	protected.GET("/categories/add", categoryHandler.NewForm)
	protected.POST("/categories/add", categoryHandler.Create)
	protected.GET("/categories/delete/:id", categoryHandler.Delete)

	protected.GET("/userHistory", blogHandler.UserHistory)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"title": "Page Not Found",
			"state": middleware.State(c),
		})
	})

	return r
}
