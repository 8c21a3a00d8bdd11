package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
	"github.com/mastkeey/cb-cloud-service/store"
)

// WorkspaceService manages the workspace lifecycle. A workspace is
// either absent, active or gone, there is no soft delete.
type WorkspaceService struct {
	stores  store.Stores
	storage ObjectStorage
}

func NewWorkspaceService(stores store.Stores, storage ObjectStorage) *WorkspaceService {
	return &WorkspaceService{stores: stores, storage: storage}
}

// Create provisions a workspace owned by userID. The object-store
// folder is written first, then the workspace and membership rows go
// in one transaction; if the transaction fails the folder is removed
// again. Name uniqueness is per owner, backed by a unique index.
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, name string) (model.Workspace, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return model.Workspace{}, err
	}

	if _, err := s.stores.Workspaces.FindByOwnerAndName(ctx, user.ID, name); err == nil {
		return model.Workspace{}, newConflict("workspace with name %s already exist", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Workspace{}, newInternal("failed to query workspace", err)
	}

	if err := s.storage.CreateFolder(ctx, user.BucketName, name); err != nil {
		return model.Workspace{}, newInternal("error creating folder in storage", err)
	}

	workspace := model.Workspace{
		ID:      uuid.New(),
		Name:    name,
		OwnerID: user.ID,
	}

	err = s.stores.Tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.stores.Workspaces.Create(ctx, tx, &workspace); err != nil {
			return err
		}
		return s.stores.Memberships.Create(ctx, tx, &model.UserWorkspace{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
		})
	})
	if err != nil {
		// Compensate the folder write so a lost race doesn't litter the
		// bucket. Best effort, an orphaned folder marker is harmless.
		if delErr := s.storage.DeleteFolder(ctx, user.BucketName, name+"/"); delErr != nil {
			zap.L().Warn("Failed to clean up folder after aborted create",
				zap.String("bucket", user.BucketName),
				zap.String("workspace", name),
				zap.Error(delErr))
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Workspace{}, newConflict("workspace with name %s already exist", name)
		}
		return model.Workspace{}, newInternal("failed to create workspace", err)
	}

	zap.L().Info("Workspace created",
		zap.String("workspaceID", workspace.ID.String()),
		zap.String("ownerID", user.ID.String()))

	return workspace, nil
}

// List returns one page of the user's workspaces, membership-scoped,
// in insertion order.
func (s *WorkspaceService) List(ctx context.Context, userID uuid.UUID, req PageRequest) (Page[model.Workspace], error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return Page[model.Workspace]{}, err
	}

	workspaces, total, err := s.stores.Workspaces.ListByMember(ctx, userID, req.offset(), req.Size)
	if err != nil {
		return Page[model.Workspace]{}, newInternal("failed to list workspaces", err)
	}

	return newPage(workspaces, req, total), nil
}

// ListAll returns every workspace the user is a member of.
func (s *WorkspaceService) ListAll(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	workspaces, err := s.stores.Workspaces.ListAllByMember(ctx, userID)
	if err != nil {
		return nil, newInternal("failed to list workspaces", err)
	}

	return workspaces, nil
}

// Rename changes the workspace name. The object-store folder and the
// stored paths of existing files keep the old name, only metadata
// moves. Files uploaded after the rename land under the new name.
func (s *WorkspaceService) Rename(ctx context.Context, userID, workspaceID uuid.UUID, newName string) (model.Workspace, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return model.Workspace{}, err
	}

	if taken, err := s.stores.Workspaces.FindByOwnerAndName(ctx, user.ID, newName); err == nil {
		if taken.ID != workspaceID {
			return model.Workspace{}, newConflict("workspace with name %s already exist", newName)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Workspace{}, newInternal("failed to query workspace", err)
	}

	var target *model.Workspace
	for i := range user.Workspaces {
		if user.Workspaces[i].ID == workspaceID {
			target = &user.Workspaces[i]
			break
		}
	}
	if target == nil {
		return model.Workspace{}, newNotFound("workspace with id %s not found", workspaceID)
	}

	target.Name = newName
	if err := s.stores.Workspaces.Save(ctx, nil, target); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Workspace{}, newConflict("workspace with name %s already exist", newName)
		}
		return model.Workspace{}, newInternal("failed to rename workspace", err)
	}

	zap.L().Info("Workspace renamed",
		zap.String("workspaceID", workspaceID.String()),
		zap.String("name", newName))

	return *target, nil
}

// Delete removes the workspace when called by its owner: membership
// rows, file rows and the workspace row go in one transaction, then
// the object-store folder is deleted. Rows go first so a failed folder
// delete leaves an orphaned blob, never metadata pointing nowhere.
// A non-owner member is only unlinked, the workspace survives.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}

	var target *model.Workspace
	for i := range user.Workspaces {
		if user.Workspaces[i].ID == workspaceID {
			target = &user.Workspaces[i]
			break
		}
	}
	if target == nil {
		return newNotFound("workspace with id %s not linked to user %s", workspaceID, userID)
	}

	if target.OwnerID != user.ID {
		if err := s.stores.Memberships.DeleteByUserAndWorkspace(ctx, nil, userID, workspaceID); err != nil {
			return newInternal("failed to unlink workspace", err)
		}

		zap.L().Info("User unlinked from workspace",
			zap.String("userID", userID.String()),
			zap.String("workspaceID", workspaceID.String()))
		return nil
	}

	err = s.stores.Tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.stores.Memberships.DeleteByWorkspace(ctx, tx, workspaceID); err != nil {
			return err
		}
		return s.stores.Workspaces.Delete(ctx, tx, workspaceID)
	})
	if err != nil {
		return newInternal("failed to delete workspace", err)
	}

	if err := s.storage.DeleteFolder(ctx, user.BucketName, target.Name+"/"); err != nil {
		return newInternal("error deleting folder in storage", err)
	}

	zap.L().Info("Workspace deleted",
		zap.String("workspaceID", workspaceID.String()),
		zap.String("ownerID", user.ID.String()))

	return nil
}

func (s *WorkspaceService) resolveUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, newNotFound("user with id %s not found", userID)
		}
		return model.User{}, newInternal("failed to query user", err)
	}
	return user, nil
}
