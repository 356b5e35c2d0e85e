package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taibah_backend/internals/features/gallery/controller"
)

// GalleryPublicRoutes mounts the published list for the landing page.
// Registered before the JWT-guarded groups.
func GalleryPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewGalleryController(db)

	public.Get("/api/gallery", ctrl.GetPublishedItems)
}

// GalleryAdminRoutes mounts the management endpoints.
func GalleryAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewGalleryController(db)

	admin.Get("/admin/gallery", ctrl.GetAllItems)
	admin.Post("/admin/gallery", ctrl.CreateItem)
	admin.Patch("/admin/gallery/:id", ctrl.UpdateItem)
	admin.Delete("/admin/gallery/:id", ctrl.DeleteItem)
}
