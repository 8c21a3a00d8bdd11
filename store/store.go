// Package store holds the data-access layer. It carries no business
// logic: every rule about who may touch what lives in the services,
// the store only answers queries and applies mutations. Lookups that
// miss return gorm.ErrRecordNotFound and leave the mapping to an
// error kind to the caller.
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
)

// TxManager scopes a sequence of store calls to one database
// transaction. Methods accept the *gorm.DB handed to the callback;
// nil means "run on the base connection".
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserStore interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	CountByUsername(ctx context.Context, username string) (int64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	// GetByID eagerly loads the user's workspace memberships.
	GetByID(ctx context.Context, userID uuid.UUID) (model.User, error)
}

type WorkspaceStore interface {
	Create(ctx context.Context, tx *gorm.DB, workspace *model.Workspace) error
	Save(ctx context.Context, tx *gorm.DB, workspace *model.Workspace) error
	GetByID(ctx context.Context, workspaceID uuid.UUID) (model.Workspace, error)
	FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (model.Workspace, error)
	// ListByMember pages through every workspace the user has a
	// membership row for, in insertion order. Returns the page plus the
	// total row count.
	ListByMember(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Workspace, int64, error)
	ListAllByMember(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error)
	// Delete removes the workspace row and its file rows.
	Delete(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) error
}

type FileStore interface {
	Create(ctx context.Context, tx *gorm.DB, file *model.File) error
	GetByID(ctx context.Context, fileID uuid.UUID) (model.File, error)
	FindByWorkspaceAndName(ctx context.Context, workspaceID uuid.UUID, name, extension string) (model.File, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]model.File, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) error
}

type MembershipStore interface {
	Create(ctx context.Context, tx *gorm.DB, membership *model.UserWorkspace) error
	Find(ctx context.Context, userID, workspaceID uuid.UUID) (model.UserWorkspace, error)
	DeleteByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) error
	DeleteByUserAndWorkspace(ctx context.Context, tx *gorm.DB, userID, workspaceID uuid.UUID) error
}

type Stores struct {
	Tx          TxManager
	Users       UserStore
	Workspaces  WorkspaceStore
	Files       FileStore
	Memberships MembershipStore
}

func New(db *gorm.DB) Stores {
	return Stores{
		Tx:          &gormTxManager{db: db},
		Users:       &userStore{db: db},
		Workspaces:  &workspaceStore{db: db},
		Files:       &fileStore{db: db},
		Memberships: &membershipStore{db: db},
	}
}

type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// conn picks the transaction handle when one is in flight.
func conn(db *gorm.DB, ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
