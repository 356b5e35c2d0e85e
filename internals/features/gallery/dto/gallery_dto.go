package dto

// CreateGalleryItemRequest registers already-uploaded media. URLs and
// storage keys come from the upload pipeline, not from this service.
type CreateGalleryItemRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=photo video external_video"`
	Title string `json:"title" validate:"omitempty,max=200"`

	StorageKey string `json:"storage_key" validate:"omitempty,max=500"`
	PublicURL  string `json:"public_url" validate:"omitempty,url"`
	ThumbURL   string `json:"thumb_url" validate:"omitempty,url"`

	ContentType     string   `json:"content_type" validate:"omitempty,max=100"`
	SizeBytes       *int64   `json:"size_bytes" validate:"omitempty,gte=0"`
	Width           *int     `json:"width" validate:"omitempty,gte=0"`
	Height          *int     `json:"height" validate:"omitempty,gte=0"`
	DurationSeconds *float64 `json:"duration_seconds" validate:"omitempty,gte=0"`

	IsPublished *bool `json:"is_published"`
	SortOrder   *int  `json:"sort_order"`
}

// UpdateGalleryItemRequest patches item metadata; nil fields are untouched.
type UpdateGalleryItemRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	ThumbURL    *string `json:"thumb_url" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published"`
	SortOrder   *int    `json:"sort_order"`
}
