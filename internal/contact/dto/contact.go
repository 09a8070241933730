package dto

import contactdomain "propcrm-backend/internal/contact/domain"

type ContactsResponse struct {
	Contacts []*contactdomain.Contact `json:"contacts"`
	Total    int64                    `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}
