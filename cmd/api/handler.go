package api

import (
	"context"

	authUsecase "propcrm-backend/internal/auth/usecase"
	contactUsecase "propcrm-backend/internal/contact/usecase"
	dashboardUsecase "propcrm-backend/internal/dashboard/usecase"
	integrationUsecase "propcrm-backend/internal/integration/usecase"
	propertyUsecase "propcrm-backend/internal/property/usecase"
	"propcrm-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase        authUsecase.AuthUsecase
	integrationUsecase integrationUsecase.IntegrationUsecase
	contactUsecase     contactUsecase.ContactUsecase
	propertyUsecase    propertyUsecase.PropertyUsecase
	dashboardUsecase   dashboardUsecase.DashboardUsecase
	config             *config.Config
}

// NewCRMSourceFactory adapts the integration usecase to the contact sync's
// per-user source factory.
func NewCRMSourceFactory(integrationUc integrationUsecase.IntegrationUsecase) contactUsecase.ContactSourceFactory {
	return func(ctx context.Context, userID string) (contactUsecase.ContactSource, error) {
		client, err := integrationUc.ClientForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func NewHandler(authUc authUsecase.AuthUsecase, integrationUc integrationUsecase.IntegrationUsecase, contactUc contactUsecase.ContactUsecase, propertyUc propertyUsecase.PropertyUsecase, dashboardUc dashboardUsecase.DashboardUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:        authUc,
		integrationUsecase: integrationUc,
		contactUsecase:     contactUc,
		propertyUsecase:    propertyUc,
		dashboardUsecase:   dashboardUc,
		config:             cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.integrationUsecase, h.contactUsecase, h.propertyUsecase, h.dashboardUsecase, h.config)

	return r.Run(addr)
}
