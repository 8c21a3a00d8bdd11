package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_file_workspace_name" json:"workspace_id"`

	// Base name and extension are stored separately so overwrites can be
	// matched without parsing the path back apart.
	Name      string `gorm:"not null;uniqueIndex:idx_file_workspace_name" json:"name"`
	Extension string `gorm:"not null;uniqueIndex:idx_file_workspace_name" json:"extension"`

	// Key of the blob inside the owner's bucket. Set once at creation and
	// never updated, even if the workspace is later renamed.
	Path string `gorm:"not null" json:"path"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (f *File) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FullName rebuilds the original file name, extension included. A file
// uploaded without an extension keeps its trailing dot here too.
func (f *File) FullName() string {
	return f.Name + "." + f.Extension
}
