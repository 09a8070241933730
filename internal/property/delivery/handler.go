package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdelivery "propcrm-backend/internal/auth/delivery"
	propertydto "propcrm-backend/internal/property/dto"
	"propcrm-backend/internal/property/usecase"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyUsecase usecase.PropertyUsecase
}

func NewPropertyHandler(propertyUsecase usecase.PropertyUsecase) *PropertyHandler {
	return &PropertyHandler{
		propertyUsecase: propertyUsecase,
	}
}

// Upload ingests a PropStream CSV export sent as multipart field "file". The
// whole import runs within this request.
func (h *PropertyHandler) Upload(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	result, err := h.propertyUsecase.ImportCSV(c.Request.Context(), user.ID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		var missingErr *usecase.MissingHeadersError
		switch {
		case errors.Is(err, usecase.ErrFileTooLarge),
			errors.Is(err, usecase.ErrInvalidFileType),
			errors.Is(err, usecase.ErrCSVParse),
			errors.Is(err, usecase.ErrEmptyFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &missingErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": missingErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PropertyHandler) ListProperties(c *gin.Context) {
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

	properties, total, err := h.propertyUsecase.ListProperties(limit, offset, c.Query("city"), c.Query("state"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, propertydto.PropertiesResponse{
		Properties: properties,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	})
}
