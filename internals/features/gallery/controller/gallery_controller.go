// 📁 controller/gallery_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taibah_backend/internals/features/gallery/dto"
	"taibah_backend/internals/features/gallery/model"
	helper "taibah_backend/internals/helpers"
)

type GalleryController struct {
	DB *gorm.DB
}

func NewGalleryController(db *gorm.DB) *GalleryController {
	return &GalleryController{DB: db}
}

// 🟢 PUBLIC LIST: published items for the landing page, in display order.
func (ctrl *GalleryController) GetPublishedItems(c *fiber.Ctx) error {
	var items []model.GalleryItemModel
	if err := ctrl.DB.
		Where("gallery_item_is_published = ?", true).
		Order("gallery_item_sort_order asc, created_at desc").
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load gallery.")
	}

	return helper.JsonList(c, "", items, int64(len(items)))
}

// 🟢 ADMIN LIST: everything, drafts included.
func (ctrl *GalleryController) GetAllItems(c *fiber.Ctx) error {
	var items []model.GalleryItemModel
	if err := ctrl.DB.
		Order("gallery_item_sort_order asc, created_at desc").
		Find(&items).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load gallery.")
	}

	return helper.JsonList(c, "", items, int64(len(items)))
}

// 🟢 CREATE: register media metadata the upload pipeline produced.
func (ctrl *GalleryController) CreateItem(c *fiber.Ctx) error {
	var body dto.CreateGalleryItemRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if fieldErrors := helper.ValidateStruct(body); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}
	if !model.IsValidGalleryKind(body.Kind) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid gallery kind.")
	}
	if body.Kind == model.GalleryKindExternalVideo && body.PublicURL == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "External videos need a public_url.")
	}

	item := model.GalleryItemModel{
		GalleryItemKind:            body.Kind,
		GalleryItemTitle:           optionalString(body.Title),
		GalleryItemStorageKey:      optionalString(body.StorageKey),
		GalleryItemPublicURL:       optionalString(body.PublicURL),
		GalleryItemThumbURL:        optionalString(body.ThumbURL),
		GalleryItemContentType:     optionalString(body.ContentType),
		GalleryItemSizeBytes:       body.SizeBytes,
		GalleryItemWidth:           body.Width,
		GalleryItemHeight:          body.Height,
		GalleryItemDurationSeconds: body.DurationSeconds,
	}
	if body.IsPublished != nil {
		item.GalleryItemIsPublished = *body.IsPublished
	}
	if body.SortOrder != nil {
		item.GalleryItemSortOrder = *body.SortOrder
	}

	if err := ctrl.DB.Create(&item).Error; err != nil {
		log.Println("[ERROR] gallery create failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create gallery item.")
	}

	return helper.JsonCreated(c, "Gallery item created.", item)
}

// 🟢 UPDATE: patch metadata; only provided fields change.
func (ctrl *GalleryController) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid gallery item id.")
	}

	var body dto.UpdateGalleryItemRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if fieldErrors := helper.ValidateStruct(body); fieldErrors != nil {
		return helper.JsonValidationError(c, fieldErrors)
	}

	updates := map[string]any{}
	if body.Title != nil {
		updates["gallery_item_title"] = *body.Title
	}
	if body.ThumbURL != nil {
		updates["gallery_item_thumb_url"] = *body.ThumbURL
	}
	if body.IsPublished != nil {
		updates["gallery_item_is_published"] = *body.IsPublished
	}
	if body.SortOrder != nil {
		updates["gallery_item_sort_order"] = *body.SortOrder
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update.")
	}

	res := ctrl.DB.Model(&model.GalleryItemModel{}).
		Where("gallery_item_id = ?", itemID).
		Updates(updates)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update gallery item.")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Gallery item not found.")
	}

	var item model.GalleryItemModel
	if err := ctrl.DB.First(&item, "gallery_item_id = ?", itemID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load gallery item.")
	}

	return helper.JsonUpdated(c, "Gallery item updated.", item)
}

// 🟢 DELETE: remove the metadata row. Stored objects are cleaned up by the
// upload pipeline's own lifecycle rules.
func (ctrl *GalleryController) DeleteItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid gallery item id.")
	}

	res := ctrl.DB.Delete(&model.GalleryItemModel{}, "gallery_item_id = ?", itemID)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete gallery item.")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Gallery item not found.")
	}

	return helper.JsonDeleted(c, "Gallery item deleted.", fiber.Map{"gallery_item_id": itemID})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
