package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workspace struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// A user can't own two workspaces with the same name. The composite
	// index is what actually wins the race between two concurrent
	// creates, the in-service existence check alone isn't enough.
	Name    string    `gorm:"not null;uniqueIndex:idx_workspace_owner_name" json:"name"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_owner_name" json:"owner_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Files []File `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (w *Workspace) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
