package dto

import (
	propertydomain "propcrm-backend/internal/property/domain"
)

type PropertiesResponse struct {
	Properties []*propertydomain.Property `json:"properties"`
	Total      int64                      `json:"total"`
	Limit      int                        `json:"limit"`
	Offset     int                        `json:"offset"`
}
