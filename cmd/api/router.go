package api

import (
	"net/http"

	"propcrm-backend/internal/auth/delivery"
	authUsecase "propcrm-backend/internal/auth/usecase"
	contactDelivery "propcrm-backend/internal/contact/delivery"
	contactUsecase "propcrm-backend/internal/contact/usecase"
	dashboardDelivery "propcrm-backend/internal/dashboard/delivery"
	dashboardUsecase "propcrm-backend/internal/dashboard/usecase"
	integrationDelivery "propcrm-backend/internal/integration/delivery"
	integrationUsecase "propcrm-backend/internal/integration/usecase"
	propertyDelivery "propcrm-backend/internal/property/delivery"
	propertyUsecase "propcrm-backend/internal/property/usecase"
	"propcrm-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, integrationUc integrationUsecase.IntegrationUsecase, contactUc contactUsecase.ContactUsecase, propertyUc propertyUsecase.PropertyUsecase, dashboardUc dashboardUsecase.DashboardUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUc)
	integrationHandler := integrationDelivery.NewIntegrationHandler(integrationUc, cfg)
	contactHandler := contactDelivery.NewContactHandler(contactUc)
	propertyHandler := propertyDelivery.NewPropertyHandler(propertyUc)
	dashboardHandler := dashboardDelivery.NewDashboardHandler(dashboardUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// HubSpot integration routes. The callback must stay public: it is hit
		// by the provider redirect, not by the app.
		hubspot := api.Group("/integrations/hubspot")
		{
			hubspot.GET("/callback", integrationHandler.Callback)
			hubspot.GET("/connect", delivery.AuthMiddleware(authUc), integrationHandler.Connect)
			hubspot.GET("/status", delivery.AuthMiddleware(authUc), integrationHandler.Status)
			hubspot.DELETE("", delivery.AuthMiddleware(authUc), integrationHandler.Disconnect)
			hubspot.POST("/sync", delivery.AuthMiddleware(authUc), contactHandler.TriggerSync)
			hubspot.GET("/sync/status", delivery.AuthMiddleware(authUc), contactHandler.GetSyncStatus)
		}

		// Contact routes (protected)
		contacts := api.Group("/contacts")
		contacts.Use(delivery.AuthMiddleware(authUc))
		{
			contacts.GET("", contactHandler.ListContacts)
		}

		// Property routes (protected)
		properties := api.Group("/properties")
		properties.Use(delivery.AuthMiddleware(authUc))
		{
			properties.GET("", propertyHandler.ListProperties)
			properties.POST("/upload", propertyHandler.Upload)
		}

		// Dashboard routes (protected)
		dashboard := api.Group("/dashboard")
		dashboard.Use(delivery.AuthMiddleware(authUc))
		{
			dashboard.GET("/stats", dashboardHandler.GetStats)
			dashboard.GET("/activity", dashboardHandler.GetActivity)
		}
	}
}
