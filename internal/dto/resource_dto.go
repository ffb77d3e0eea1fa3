package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadResourceRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Subject     string `form:"subject"`
	Course      string `form:"course"`
	Semester    string `form:"semester"`
	Tags        string `form:"tags"`
}

type ResourceResponse struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Subject          string    `json:"subject"`
	Course           string    `json:"course,omitempty"`
	Semester         *int      `json:"semester,omitempty"`
	Tags             []string  `json:"tags"`
	FileURL          string    `json:"fileUrl"`
	OriginalFilename string    `json:"originalFilename"`
	Format           string    `json:"format,omitempty"`
	MimeType         string    `json:"mimeType,omitempty"`
	UploadedBy       string    `json:"uploadedBy"`
	CreatedAt        time.Time `json:"created_at"`
}

type ResourcePage struct {
	Items      []ResourceResponse `json:"items"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Total      int64              `json:"total"`
	Limit      int                `json:"limit"`
}

type ResourceSearchHit struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Subject string    `json:"subject"`
	Course  string    `json:"course,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
}
