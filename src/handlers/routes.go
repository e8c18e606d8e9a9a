package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sccbd/catalog-api/src/middleware"
	"github.com/sccbd/catalog-api/src/models"
)

// Routes bundles everything RegisterRoutes needs
type Routes struct {
	Health       *HealthHandler
	Users        *UserHandler
	Destinations *DestinationHandler
	Products     *ProductHandler

	Auth          middleware.Authenticator
	UserLoader    middleware.UserGetter
	ProductLoader middleware.ProductGetter

	// AccountLimiter guards the public account endpoints. Nil disables it.
	AccountLimiter gin.HandlerFunc

	// ImageDir is served under /images when set
	ImageDir string
}

// RegisterRoutes mounts the public and API routes on router
func RegisterRoutes(router *gin.Engine, r Routes) {
	router.GET("/", r.Health.HandleRoot)
	router.GET("/health", r.Health.HandleHealth)
	router.GET("/ready", r.Health.HandleReady)
	router.GET("/info", r.Health.HandleInfo)

	if r.ImageDir != "" {
		router.Static("/images", r.ImageDir)
	}

	api := router.Group("/api")

	account := api.Group("")
	if r.AccountLimiter != nil {
		account.Use(r.AccountLimiter)
	}
	account.POST("/create-users", middleware.OptionalAPIKey(r.Auth), r.Users.HandleCreateUser)
	account.POST("/account-activation", r.Users.HandleActivate)
	account.POST("/login", r.Users.HandleLogin)
	account.POST("/reset", r.Users.HandleRequestReset)
	account.POST("/reset-password", r.Users.HandleResetPassword)

	api.GET("/destinations", r.Destinations.HandleList)
	api.GET("/destinations/:id", r.Destinations.HandleGet)

	protected := api.Group("", middleware.RequireAPIKey(r.Auth))
	{
		admin := protected.Group("", middleware.RequireRole(models.RoleAdmin))
		admin.GET("/users", r.Users.HandleListUsers)
		admin.DELETE("/users/:id", middleware.LoadUser(r.UserLoader), r.Users.HandleDeleteUser)

		protected.POST("/destinations", r.Destinations.HandleCreate)
		protected.POST("/destinations/:id", r.Destinations.HandleUpdate)
		protected.DELETE("/destinations/:id", r.Destinations.HandleDelete)

		protected.GET("/products", r.Products.HandleList)
		protected.POST("/products", r.Products.HandleCreate)

		product := protected.Group("/products/:id", middleware.LoadProduct(r.ProductLoader))
		product.GET("", r.Products.HandleShow)
		product.PATCH("", r.Products.HandleUpdate)
		product.DELETE("", r.Products.HandleDelete)
	}
}
