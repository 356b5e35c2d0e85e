package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GalleryKindPhoto         = "photo"
	GalleryKindVideo         = "video"
	GalleryKindExternalVideo = "external_video"
)

func IsValidGalleryKind(kind string) bool {
	switch kind {
	case GalleryKindPhoto, GalleryKindVideo, GalleryKindExternalVideo:
		return true
	}
	return false
}

// GalleryItemModel is metadata only; the upload/CDN pipeline lives outside
// this service and hands us storage keys and public URLs.
type GalleryItemModel struct {
	GalleryItemID uuid.UUID `gorm:"column:gallery_item_id;type:uuid;primaryKey" json:"gallery_item_id"`

	GalleryItemKind  string  `gorm:"column:gallery_item_kind;type:varchar(20);not null" json:"gallery_item_kind"`
	GalleryItemTitle *string `gorm:"column:gallery_item_title;type:varchar(200)" json:"gallery_item_title,omitempty"`

	GalleryItemStorageKey *string `gorm:"column:gallery_item_storage_key;type:text" json:"gallery_item_storage_key,omitempty"`
	GalleryItemPublicURL  *string `gorm:"column:gallery_item_public_url;type:text" json:"gallery_item_public_url,omitempty"`
	GalleryItemThumbURL   *string `gorm:"column:gallery_item_thumb_url;type:text" json:"gallery_item_thumb_url,omitempty"`

	GalleryItemContentType     *string  `gorm:"column:gallery_item_content_type;type:varchar(100)" json:"gallery_item_content_type,omitempty"`
	GalleryItemSizeBytes       *int64   `gorm:"column:gallery_item_size_bytes" json:"gallery_item_size_bytes,omitempty"`
	GalleryItemWidth           *int     `gorm:"column:gallery_item_width" json:"gallery_item_width,omitempty"`
	GalleryItemHeight          *int     `gorm:"column:gallery_item_height" json:"gallery_item_height,omitempty"`
	GalleryItemDurationSeconds *float64 `gorm:"column:gallery_item_duration_seconds" json:"gallery_item_duration_seconds,omitempty"`

	GalleryItemIsPublished bool `gorm:"column:gallery_item_is_published;not null;default:false" json:"gallery_item_is_published"`
	GalleryItemSortOrder   int  `gorm:"column:gallery_item_sort_order;not null;default:0" json:"gallery_item_sort_order"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GalleryItemModel) TableName() string {
	return "gallery_items"
}

func (g *GalleryItemModel) BeforeCreate(tx *gorm.DB) error {
	if g.GalleryItemID == uuid.Nil {
		g.GalleryItemID = uuid.New()
	}
	return nil
}
