package entity

import (
	"time"
)

const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

// OrderMedia is a Cloudinary asset attached to an order.
type OrderMedia struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id,omitempty"`
	MediaType string    `json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
}

// SignedUploadParams is one signed parameter set a client needs to upload
// directly to Cloudinary.
type SignedUploadParams struct {
	PublicID  string `json:"public_id"`
	Folder    string `json:"folder"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	Signature string `json:"signature"`
}
