package delivery

import (
	"log"
	"net/http"

	authdelivery "propcrm-backend/internal/auth/delivery"
	"propcrm-backend/internal/integration/usecase"
	"propcrm-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type IntegrationHandler struct {
	integrationUsecase usecase.IntegrationUsecase
	config             *config.Config
}

func NewIntegrationHandler(integrationUsecase usecase.IntegrationUsecase, cfg *config.Config) *IntegrationHandler {
	return &IntegrationHandler{
		integrationUsecase: integrationUsecase,
		config:             cfg,
	}
}

// Connect redirects the authenticated user to the provider authorize page.
func (h *IntegrationHandler) Connect(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	authURL, err := h.integrationUsecase.Initiate(user.ID)
	if err != nil {
		log.Printf("[ERROR] HubSpot auth initiation failed: %v", err)
		c.Redirect(http.StatusFound, h.config.AppBaseURL+"/settings?error=auth_failed")
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Callback handles the provider redirect. It is unauthenticated; identity comes
// from the persisted state record.
func (h *IntegrationHandler) Callback(c *gin.Context) {
	redirect := h.integrationUsecase.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	c.Redirect(http.StatusFound, redirect)
}

func (h *IntegrationHandler) Status(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.integrationUsecase.Status(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.integrationUsecase.Disconnect(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "hubspot disconnected"})
}
