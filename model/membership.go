package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserWorkspace links a user to a workspace they may operate on,
// independent of ownership. The owner always has a row here too.
type UserWorkspace struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_workspace" json:"user_id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_workspace" json:"workspace_id"`
}

func (uw *UserWorkspace) TableName() string {
	return "user_workspaces"
}

func (uw *UserWorkspace) BeforeCreate(_ *gorm.DB) error {
	if uw.ID == uuid.Nil {
		uw.ID = uuid.New()
	}
	return nil
}
