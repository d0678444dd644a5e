package routes

import (
	"net/http"

	"cart-shop/controllers"
	"cart-shop/middleware"
	"cart-shop/repositories"
	"cart-shop/services"
	"cart-shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Dependencies struct {
	Store         repositories.Store
	Cache         services.ProductCache
	Events        services.EventPublisher
	Notifier      services.Notifier
	Avatars       services.AvatarStorage
	Tokens        *utils.TokenManager
	Logger        *zap.Logger
	OriginURL     string
	UploadDir     string
	MaxUploadSize int64
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware(deps.OriginURL))

	SetupRoutes(router, deps)
	return router
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	productService := services.NewProductService(deps.Store, deps.Cache, deps.Logger)

	authCtrl := controllers.NewAuthController(services.NewAuthService(deps.Store, deps.Tokens, deps.Logger))
	userCtrl := controllers.NewUserController(services.NewUserService(deps.Store, deps.Logger))
	profileCtrl := controllers.NewProfileController(
		services.NewProfileService(deps.Store, deps.Avatars, deps.Logger), deps.MaxUploadSize)
	productCtrl := controllers.NewProductController(productService)
	shippingCtrl := controllers.NewShippingController(services.NewShippingService(deps.Store, deps.Logger))
	cartCtrl := controllers.NewCartController(services.NewCartService(deps.Store, deps.Cache, deps.Events, deps.Logger))
	orderCtrl := controllers.NewOrderController(services.NewOrderService(deps.Store, deps.Events, deps.Notifier, deps.Logger))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		auth.GET("/auth/me", authCtrl.Me)

		auth.GET("/profiles/:id", profileCtrl.Get)
		auth.PUT("/profiles/:id", profileCtrl.Update)
		auth.POST("/profiles/avatar", profileCtrl.UploadAvatar)

		auth.GET("/addresses", profileCtrl.ListAddresses)
		auth.POST("/addresses", profileCtrl.CreateAddress)
		auth.GET("/addresses/:id", profileCtrl.GetAddress)
		auth.PUT("/addresses/:id", profileCtrl.UpdateAddress)

		auth.GET("/products", productCtrl.List)
		auth.GET("/products/:id", productCtrl.Get)

		auth.GET("/shipping/regions", shippingCtrl.Regions)
		auth.GET("/shipping-options", shippingCtrl.List)
		auth.GET("/shipping-options/:id", shippingCtrl.Get)

		auth.GET("/carts", cartCtrl.ListActive)
		auth.POST("/carts", cartCtrl.Create)
		auth.GET("/carts/finalized", cartCtrl.ListFinalized)
		auth.POST("/carts/items/:product/:quantity", cartCtrl.AddItem)
		auth.DELETE("/carts/items/:product", cartCtrl.RemoveItem)
		auth.PATCH("/carts/status", cartCtrl.UpdateStatus)
		auth.PATCH("/carts/shipping", cartCtrl.AssignShipping)

		auth.GET("/orders", orderCtrl.List)
		auth.POST("/orders", orderCtrl.Place)
		auth.GET("/orders/:id", orderCtrl.Get)
		auth.DELETE("/orders/:id", orderCtrl.Delete)
	}

	admin := router.Group("/")
	admin.Use(middleware.AuthMiddleware(deps.Tokens), middleware.AdminMiddleware())
	{
		admin.GET("/users", userCtrl.List)
		admin.GET("/users/:id", userCtrl.Get)
		admin.DELETE("/users/:id", userCtrl.Delete)

		admin.GET("/profiles", profileCtrl.List)
		admin.DELETE("/profiles/:id", profileCtrl.Delete)
		admin.DELETE("/addresses/:id", profileCtrl.DeleteAddress)

		admin.POST("/products", productCtrl.Create)
		admin.PUT("/products/:id", productCtrl.Update)
		admin.DELETE("/products/:id", productCtrl.Delete)

		admin.POST("/shipping-options", shippingCtrl.Create)
		admin.PUT("/shipping-options/:id", shippingCtrl.Update)
		admin.DELETE("/shipping-options/:id", shippingCtrl.Delete)
	}

	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}
}
