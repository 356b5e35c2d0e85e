package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationModel stores an enrollment application. The submitted form is
// kept as raw JSON; checkout uses it for billing-detail fallbacks
// (fullName, phone, nationality).
type ApplicationModel struct {
	ApplicationID uuid.UUID `gorm:"column:application_id;type:uuid;primaryKey" json:"application_id"`

	ApplicationUserID uuid.UUID      `gorm:"column:application_user_id;type:uuid;not null;index" json:"application_user_id"`
	ApplicationData   datatypes.JSON `gorm:"column:application_data;type:jsonb" json:"application_data,omitempty"`
	ApplicationStatus string         `gorm:"column:application_status;type:varchar(20);not null;default:'submitted'" json:"application_status"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func (a *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if a.ApplicationID == uuid.Nil {
		a.ApplicationID = uuid.New()
	}
	return nil
}
