// Package model defines database models
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Every user gets their own bucket in the object store. The name is
	// the user's ID so it never collides and never needs escaping.
	BucketName string `gorm:"not null" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Workspaces []Workspace `gorm:"many2many:user_workspaces;" json:"-"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.BucketName == "" {
		u.BucketName = u.ID.String()
	}
	return nil
}
