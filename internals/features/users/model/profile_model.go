package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel mirrors the account profile kept by the identity provider.
// The payment core reads it for billing-detail fallbacks only.
type ProfileModel struct {
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;primaryKey" json:"profile_id"`

	ProfileFullName *string `gorm:"column:profile_full_name;type:varchar(100)" json:"profile_full_name,omitempty"`
	ProfileEmail    *string `gorm:"column:profile_email;type:varchar(255)" json:"profile_email,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}
