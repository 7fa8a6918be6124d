package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"jewelme/internal/config"
	"jewelme/internal/database"
	"jewelme/internal/handlers"
	"jewelme/internal/mail"
	"jewelme/internal/middleware"
	"jewelme/internal/payment"
	"jewelme/internal/uploads"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("category index warning: %v", err)
	}
	if err := database.EnsureAdminIndexes(db); err != nil {
		log.Printf("admin index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	gateway := payment.NewGateway(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret)

	images, err := uploads.NewStore(
		config.AppEnv.CloudinaryCloudName,
		config.AppEnv.CloudinaryAPIKey,
		config.AppEnv.CloudinaryAPISecret,
		config.AppEnv.CloudinaryFolder,
	)
	if err != nil {
		log.Fatal(err)
	}

	mailer := mail.NewMailer(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPass,
		config.AppEnv.MailFrom,
	)

	jwtSecret := config.AppEnv.JWTSecret

	r := gin.Default()

	admin := r.Group("/api/admin")
	{
		admin.POST("/register", handlers.AdminRegister(db))
		admin.POST("/login", handlers.AdminLogin(db, jwtSecret, config.AppEnv.AccessTokenTTL))
		admin.POST("/forgot-password", handlers.ForgotPassword(db, mailer, config.AppEnv.FrontendBaseURL, config.AppEnv.ResetTokenTTL))
		admin.POST("/reset-password", handlers.ResetPassword(db))
		admin.PATCH("/change-password", middleware.StaffAuth(jwtSecret), handlers.ChangePassword(db))

		staff := admin.Group("/staff")
		staff.Use(middleware.AdminAuth(jwtSecret))
		{
			staff.GET("", handlers.ListStaff(db))
			staff.POST("", handlers.AddStaff(db))
			staff.DELETE("/:id", handlers.DeleteStaff(db))
		}
	}

	categories := r.Group("/api/categories")
	{
		categories.GET("", handlers.GetCategories(db))
		categories.GET("/:id", handlers.GetCategory(db))
		categories.POST("", middleware.StaffAuth(jwtSecret), handlers.CreateCategory(db))
		categories.PUT("/:id", middleware.StaffAuth(jwtSecret), handlers.UpdateCategory(db))
		categories.DELETE("/:id", middleware.AdminAuth(jwtSecret), handlers.DeleteCategory(db))
	}

	products := r.Group("/api/products")
	{
		products.GET("", handlers.GetProducts(db))
		products.GET("/search", handlers.SearchProducts(db))
		products.GET("/:id", handlers.GetProduct(db))
		products.POST("", middleware.StaffAuth(jwtSecret), handlers.CreateProduct(db))
		products.PUT("/:id", middleware.StaffAuth(jwtSecret), handlers.UpdateProduct(db))
		products.DELETE("/:id", middleware.AdminAuth(jwtSecret), handlers.DeleteProduct(db, images))
		products.POST("/bulk-delete", middleware.AdminAuth(jwtSecret), handlers.BulkDeleteProducts(db, images))
		products.PATCH("/:id/stock", middleware.StaffAuth(jwtSecret), handlers.PatchProductStock(db))
	}

	orders := r.Group("/api/orders")
	{
		orders.POST("/create/:userId", handlers.CreateOrder(db, gateway))
		orders.POST("/capturePayment", handlers.CapturePayment(db, gateway))
		orders.GET("", middleware.StaffAuth(jwtSecret), handlers.GetAllOrders(db))
		orders.GET("/my-orders/:userId", handlers.GetMyOrders(db))
		orders.GET("/:id", handlers.GetOrder(db))
		orders.PUT("/:id/status", middleware.StaffAuth(jwtSecret), handlers.UpdateOrderStatus(db))
		orders.PUT("/:id/cancel", middleware.RequireAuth(jwtSecret), handlers.CancelOrder(db))
	}

	imagesGroup := r.Group("/api/images")
	imagesGroup.Use(middleware.StaffAuth(jwtSecret))
	{
		imagesGroup.POST("", handlers.UploadImage(images))
		imagesGroup.DELETE("", handlers.DeleteImage(images))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
