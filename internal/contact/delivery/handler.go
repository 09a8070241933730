package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdelivery "propcrm-backend/internal/auth/delivery"
	contactdto "propcrm-backend/internal/contact/dto"
	"propcrm-backend/internal/contact/usecase"
	integrationUsecase "propcrm-backend/internal/integration/usecase"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
}

func NewContactHandler(contactUsecase usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
	}
}

// TriggerSync starts a contact sync for the authenticated user. The whole run
// executes within this request; there is no background job.
func (h *ContactHandler) TriggerSync(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.contactUsecase.SyncContacts(c.Request.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, integrationUsecase.ErrNotConnected):
			c.JSON(http.StatusBadRequest, gin.H{"error": "HubSpot not connected"})
		case errors.Is(err, usecase.ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "Sync already in progress"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ContactHandler) GetSyncStatus(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.contactUsecase.SyncStatus(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *ContactHandler) ListContacts(c *gin.Context) {
	limit := 20
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	contacts, total, err := h.contactUsecase.ListContacts(limit, offset, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contactdto.ContactsResponse{
		Contacts: contacts,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}
