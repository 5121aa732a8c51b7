// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openroyalty/marketplace-backend/internal/config"
	"github.com/openroyalty/marketplace-backend/internal/handlers"
	"github.com/openroyalty/marketplace-backend/internal/middleware"
	"github.com/openroyalty/marketplace-backend/internal/services"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18n(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())

	// Services
	revalidationService := services.NewRevalidationService(cfg)
	authService := services.NewAuthService(db, cfg)
	catalogService := services.NewCatalogService(db, revalidationService)
	listingService := services.NewListingService(db, revalidationService)
	bidService := services.NewBidService(db, revalidationService)
	cashflowService := services.NewCashflowService(db, revalidationService)
	positionService := services.NewPositionService(db)
	adminService := services.NewAdminService(db)
	paymentService := services.NewPaymentService(db, cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	listingHandler := handlers.NewListingHandler(listingService)
	bidHandler := handlers.NewBidHandler(bidService)
	cashflowHandler := handlers.NewCashflowHandler(cashflowService)
	portfolioHandler := handlers.NewPortfolioHandler(positionService)
	adminHandler := handlers.NewAdminHandler(adminService, catalogService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/request-code", authHandler.RequestCode)
			auth.POST("/verify-code", authHandler.VerifyCode)
			auth.POST("/refresh", authHandler.RefreshToken)
		}
		v1.GET("/auth/me", middleware.AuthRequired(), authHandler.GetProfile)

		catalogs := v1.Group("/catalogs")
		{
			catalogs.GET("", catalogHandler.SearchCatalogs)
			catalogs.GET("/mine", middleware.AuthRequired(), catalogHandler.GetMyCatalogs)
			catalogs.GET("/:id", catalogHandler.GetCatalog)
			catalogs.GET("/:id/cashflows", cashflowHandler.ListCatalogCashflows)

			catalogs.POST("", middleware.AuthRequired(),
				middleware.AuditLogger(db, "catalog.create", "catalog"), catalogHandler.CreateCatalog)
			catalogs.PATCH("/:id", middleware.AuthRequired(),
				middleware.AuditLogger(db, "catalog.update", "catalog"), catalogHandler.UpdateCatalog)
			catalogs.POST("/:id/submit", middleware.AuthRequired(),
				middleware.AuditLogger(db, "catalog.submit", "catalog"), catalogHandler.SubmitForReview)
		}

		listings := v1.Group("/listings")
		{
			listings.GET("/mine", middleware.AuthRequired(), listingHandler.GetMyListings)
			listings.GET("/:id", listingHandler.GetListing)
			listings.GET("/:id/bids", bidHandler.GetBidHistory)

			listings.POST("", middleware.AuthRequired(),
				middleware.AuditLogger(db, "listing.create", "listing"), listingHandler.CreateListing)
			listings.POST("/:id/submit", middleware.AuthRequired(),
				middleware.AuditLogger(db, "listing.submit", "listing"), listingHandler.SubmitForApproval)
			listings.POST("/:id/cancel", middleware.AuthRequired(),
				middleware.AuditLogger(db, "listing.cancel", "listing"), listingHandler.CancelListing)
			listings.POST("/:id/buy-now", middleware.AuthRequired(),
				middleware.AuditLogger(db, "listing.buy_now", "listing"), listingHandler.BuyNow)
			listings.POST("/:id/bids", middleware.AuthRequired(),
				middleware.AuditLogger(db, "bid.place", "listing"), bidHandler.PlaceBid)
		}

		portfolio := v1.Group("/portfolio")
		portfolio.Use(middleware.AuthRequired())
		{
			portfolio.GET("", portfolioHandler.GetPortfolio)
			portfolio.GET("/positions", portfolioHandler.GetPositions)
			portfolio.GET("/positions/:id", portfolioHandler.GetPosition)
			portfolio.GET("/cashflows", cashflowHandler.ListMyCashflows)
		}

		payouts := v1.Group("/payouts")
		payouts.Use(middleware.AuthRequired())
		{
			payouts.POST("/onboarding", paymentHandler.CreateOnboardingLink)
			payouts.GET("/account", paymentHandler.GetPayoutAccountStatus)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			admin.GET("/users", adminHandler.SearchUsers)
			admin.POST("/users/:id/kyc",
				middleware.AuditLogger(db, "admin.kyc_review", "user"), adminHandler.UpdateKYCStatus)
			admin.PUT("/users/:id/roles",
				middleware.AuditLogger(db, "admin.roles_update", "user"), adminHandler.UpdateRoles)

			admin.GET("/catalogs/under-review", adminHandler.GetCatalogsUnderReview)
			admin.POST("/catalogs/:id/review",
				middleware.AuditLogger(db, "admin.catalog_review", "catalog"), catalogHandler.ReviewCatalog)

			admin.GET("/listings/pending", listingHandler.GetPendingApproval)
			admin.POST("/listings/:id/approve",
				middleware.AuditLogger(db, "admin.listing_approve", "listing"), listingHandler.ApproveListing)

			admin.POST("/cashflows",
				middleware.AuditLogger(db, "admin.cashflow_create", "cashflow"), cashflowHandler.CreateCashflow)
			admin.GET("/payouts/pending", cashflowHandler.PendingPayouts)
			admin.POST("/payouts/:id/mark-paid",
				middleware.AuditLogger(db, "admin.payout_mark_paid", "investor_cashflow"), cashflowHandler.MarkAsPaid)

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
