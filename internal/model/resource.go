package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Resource struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Subject     string    `gorm:"size:100;index;not null" json:"subject"`
	Course      string    `gorm:"size:100" json:"course,omitempty"`
	Semester    *int      `gorm:"index" json:"semester,omitempty"`
	Tags        string    `gorm:"type:text" json:"tags,omitempty"`

	// FileURL points at our own download route; StorageURL is the provider URL
	// the proxy fetches from.
	FileURL          string `gorm:"size:512;not null" json:"fileUrl"`
	OriginalFilename string `gorm:"size:255;not null" json:"originalFilename"`
	StorageURL       string `gorm:"size:512" json:"-"`
	StoragePublicID  string `gorm:"size:255" json:"-"`
	ResourceType     string `gorm:"size:20" json:"resourceType,omitempty"`
	Format           string `gorm:"size:20" json:"format,omitempty"`
	MimeType         string `gorm:"size:100" json:"mimeType,omitempty"`

	UploaderID uuid.UUID `gorm:"type:uuid;index;not null" json:"uploader_id"`
	Uploader   User      `gorm:"foreignKey:UploaderID;constraint:OnDelete:CASCADE" json:"uploader"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
