package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminUserModel is the authorization list: membership grants admin access.
type AdminUserModel struct {
	AdminUserUserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AdminUserModel) TableName() string {
	return "admin_users"
}
