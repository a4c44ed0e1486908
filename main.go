package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dressmake/tailorshop-api/config"
	"github.com/dressmake/tailorshop-api/controllers"
	"github.com/dressmake/tailorshop-api/middleware"
	"github.com/dressmake/tailorshop-api/models"
	"github.com/dressmake/tailorshop-api/services"
)

func main() {
	log.Println("Starting Tailor Shop API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Staff{},
		&models.Customer{},
		&models.Product{},
		&models.Property{},
		&models.CustomerProperty{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Reference photo storage is optional: without a bucket the API runs,
	// image endpoints report storage as unconfigured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Reference photo storage enabled (bucket %s)", cfg.AWSS3Bucket)
	} else {
		log.Println("AWS_S3_BUCKET not set, reference photo uploads disabled")
	}

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	authorized := v1.Group("")
	authorized.Use(middleware.EnsureValidToken(cfg))

	// cascading deletes take whole customer histories and catalog entries
	// with them, so they are reserved for admins
	adminOnly := middleware.RequireRole("admin")
	{
		authorized.POST("/users", controllers.CreateStaffProfile)
		authorized.GET("/users/me", controllers.GetMyProfile)

		authorized.GET("/customers", controllers.ListCustomers)
		authorized.POST("/customers", controllers.CreateCustomer)
		authorized.GET("/customers/:id", controllers.GetCustomer)
		authorized.PUT("/customers/:id", controllers.UpdateCustomer)
		authorized.DELETE("/customers/:id", adminOnly, controllers.DeleteCustomer)

		authorized.GET("/products", controllers.ListProducts)
		authorized.POST("/products", controllers.CreateProduct)
		authorized.GET("/products/:id", controllers.GetProduct)
		authorized.PUT("/products/:id", controllers.UpdateProduct)
		authorized.DELETE("/products/:id", adminOnly, controllers.DeleteProduct)

		authorized.GET("/properties", controllers.ListProperties)
		authorized.POST("/properties", controllers.CreateProperty)
		authorized.GET("/properties/:id", controllers.GetProperty)
		authorized.PUT("/properties/:id", controllers.UpdateProperty)
		authorized.DELETE("/properties/:id", adminOnly, controllers.DeleteProperty)

		authorized.GET("/customer-properties", controllers.ListCustomerProperties)
		authorized.POST("/customer-properties", controllers.CreateCustomerProperty)
		authorized.GET("/customer-properties/:id", controllers.GetCustomerProperty)
		authorized.PUT("/customer-properties/:id", controllers.UpdateCustomerProperty)
		authorized.DELETE("/customer-properties/:id", controllers.DeleteCustomerProperty)

		authorized.GET("/orders", controllers.ListOrders)
		authorized.POST("/orders", controllers.CreateOrder)
		authorized.GET("/orders/:id", controllers.GetOrder)
		authorized.PUT("/orders/:id", controllers.UpdateOrder)
		authorized.DELETE("/orders/:id", adminOnly, controllers.DeleteOrder)

		authorized.GET("/order-items", controllers.ListOrderItems)
		authorized.POST("/order-items", controllers.CreateOrderItem)
		authorized.GET("/order-items/:id", controllers.GetOrderItem)
		authorized.PUT("/order-items/:id", controllers.UpdateOrderItem)
		authorized.DELETE("/order-items/:id", controllers.DeleteOrderItem)
		authorized.POST("/order-items/:id/image", controllers.UploadOrderItemImage)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tailor Shop API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
