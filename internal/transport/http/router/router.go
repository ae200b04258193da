package router

import (
	"farmmarket/internal/service"
	"farmmarket/internal/token"
	"farmmarket/internal/transport/http/handlers"
	"farmmarket/internal/transport/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Services struct {
	Auth     *service.AuthService
	Cart     service.CartService
	Checkout service.CheckoutService
	Catalog  service.CatalogService
	Orders   service.OrderQueryService
	Farmers  service.FarmerService
}

func Router(svc Services, tokens *token.HSProvider, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	authHandler := handlers.NewAuthHandler(svc.Auth, log)
	cartHandler := handlers.NewCartHandler(svc.Cart, log)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, log)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, log)
	orderHandler := handlers.NewOrderHandler(svc.Orders, log)
	farmerHandler := handlers.NewFarmerHandler(svc.Farmers, svc.Orders, log)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register/consumer", authHandler.RegisterConsumer)
		auth.POST("/register/farmer", authHandler.RegisterFarmer)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/farmers", farmerHandler.ListFarmers)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(tokens, log))
	{
		cart := authed.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.GET("/count", cartHandler.Count)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		authed.POST("/checkout", checkoutHandler.Checkout)

		authed.GET("/orders", orderHandler.ListOrders)
		authed.GET("/orders/:id", orderHandler.GetOrder)

		farmer := authed.Group("")
		farmer.Use(middleware.FarmerOnly())
		{
			farmer.POST("/products", catalogHandler.CreateProduct)
			farmer.PUT("/products/:id", catalogHandler.UpdateProduct)
			farmer.DELETE("/products/:id", catalogHandler.DeleteProduct)
			farmer.GET("/farmers/dashboard", farmerHandler.Dashboard)
			farmer.GET("/farmers/orders", farmerHandler.FarmerOrders)
		}
	}

	// маршрут с параметром регистрируется после статических /farmers/*
	api.GET("/farmers/:id", farmerHandler.GetFarmer)

	return r
}
