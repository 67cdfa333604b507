package file

import (
	"time"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/google/uuid"
)

// Record represents stored information about an uploaded file.
type Record struct {
	ID          uuid.UUID     `json:"id"`
	OwnerID     uuid.UUID     `json:"owner_id"`
	Owner       string        `json:"owner"`
	Name        string        `json:"name"`
	Extension   string        `json:"extension"`
	Type        filetype.Type `json:"type"`
	SizeBytes   int64         `json:"size"`
	ContentType string        `json:"content_type"`
	Checksum    string        `json:"checksum"`
	ObjectName  string        `json:"-"`
	URL         string        `json:"url,omitempty"`
	DownloadURL string        `json:"download_url,omitempty"`
	Icon        string        `json:"icon"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
