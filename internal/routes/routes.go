package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/payments"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)

	mailer := services.NewMailer(cfg.PostmarkServerToken, cfg.EmailSender)
	paystack := payments.NewPaystackClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	reconciler := payments.NewReconciler(paystack, orders, orders, cart.PricingConfig{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingCost:      cfg.FlatShippingCost,
	}, cfg.Currency)

	authHandler := handlers.NewAuthHandler(users, mailer, cfg)
	resetHandler := handlers.NewPasswordResetHandler(users, mailer, cfg)
	profileHandler := handlers.NewProfileHandler(users)
	userHandler := handlers.NewUserHandler(users)
	categoryHandler := handlers.NewCategoryHandler(db)
	productHandler := handlers.NewProductHandler(products)
	orderHandler := handlers.NewOrderHandler(orders, paystack, cfg)
	paymentHandler := handlers.NewPaymentHandler(reconciler, users, mailer)

	api := app.Group("/api")
	authRequired := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.RequireAdmin()

	// Users
	usersGroup := api.Group("/users")
	usersGroup.Post("/", authHandler.Register)
	usersGroup.Post("/auth", authHandler.Login)
	usersGroup.Post("/logout", authHandler.Logout)
	usersGroup.Post("/verify-email", authHandler.VerifyEmail)
	usersGroup.Post("/resend-otp", authHandler.ResendOTP)
	usersGroup.Post("/forgot-password", resetHandler.ForgotPassword)
	usersGroup.Post("/reset-password", resetHandler.ResetPassword)
	usersGroup.Get("/profile", authRequired, profileHandler.GetProfile)
	usersGroup.Put("/profile", authRequired, profileHandler.UpdateProfile)
	usersGroup.Get("/", authRequired, adminOnly, userHandler.ListUsers)
	usersGroup.Get("/:id", authRequired, adminOnly, userHandler.GetUser)
	usersGroup.Put("/:id", authRequired, adminOnly, userHandler.UpdateUser)
	usersGroup.Delete("/:id", authRequired, adminOnly, userHandler.DeleteUser)

	// Categories
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", authRequired, adminOnly, categoryHandler.CreateCategory)
	categories.Put("/:id", authRequired, adminOnly, categoryHandler.UpdateCategory)
	categories.Delete("/:id", authRequired, adminOnly, categoryHandler.DeleteCategory)

	// Products
	productsGroup := api.Group("/products")
	productsGroup.Get("/", productHandler.ListProducts)
	productsGroup.Get("/:id", productHandler.GetProduct)
	productsGroup.Post("/", authRequired, adminOnly, productHandler.CreateProduct)
	productsGroup.Put("/:id", authRequired, adminOnly, productHandler.UpdateProduct)
	productsGroup.Delete("/:id", authRequired, adminOnly, productHandler.DeleteProduct)

	// Orders
	ordersGroup := api.Group("/orders", authRequired)
	ordersGroup.Post("/", orderHandler.CreateOrder)
	ordersGroup.Get("/myorders", orderHandler.MyOrders)
	ordersGroup.Get("/", adminOnly, orderHandler.ListOrders)
	ordersGroup.Get("/:id", orderHandler.GetOrder)
	ordersGroup.Put("/:id/pay", orderHandler.Pay)
	ordersGroup.Put("/:id/deliver", adminOnly, orderHandler.Deliver)
	ordersGroup.Put("/:id", adminOnly, orderHandler.UpdateOrder)
	ordersGroup.Delete("/:id", adminOnly, orderHandler.DeleteOrder)

	// Payments
	paymentsGroup := api.Group("/payments", authRequired)
	paymentsGroup.Post("/verify-paystack", paymentHandler.VerifyPaystack)
}
