package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
)

type workspaceStore struct {
	db *gorm.DB
}

func (s *workspaceStore) Create(ctx context.Context, tx *gorm.DB, workspace *model.Workspace) error {
	return conn(s.db, ctx, tx).Create(workspace).Error
}

func (s *workspaceStore) Save(ctx context.Context, tx *gorm.DB, workspace *model.Workspace) error {
	return conn(s.db, ctx, tx).Save(workspace).Error
}

func (s *workspaceStore) GetByID(ctx context.Context, workspaceID uuid.UUID) (model.Workspace, error) {
	var workspace model.Workspace
	err := s.db.WithContext(ctx).
		Where("id = ?", workspaceID).
		First(&workspace).Error
	return workspace, err
}

func (s *workspaceStore) FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (model.Workspace, error) {
	var workspace model.Workspace
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&workspace).Error
	return workspace, err
}

func (s *workspaceStore) ListByMember(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Workspace, int64, error) {
	base := s.db.WithContext(ctx).
		Model(&model.Workspace{}).
		Joins("JOIN user_workspaces uw ON uw.workspace_id = workspaces.id").
		Where("uw.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workspaces []model.Workspace
	err := base.
		Order("workspaces.created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&workspaces).Error
	return workspaces, total, err
}

func (s *workspaceStore) ListAllByMember(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	err := s.db.WithContext(ctx).
		Joins("JOIN user_workspaces uw ON uw.workspace_id = workspaces.id").
		Where("uw.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	return workspaces, err
}

func (s *workspaceStore) Delete(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) error {
	db := conn(s.db, ctx, tx)

	// Files go explicitly. The FK cascade covers Postgres but SQLite
	// setups without foreign_keys=on would silently leave rows behind.
	if err := db.Where("workspace_id = ?", workspaceID).Delete(&model.File{}).Error; err != nil {
		return err
	}

	return db.Where("id = ?", workspaceID).Delete(&model.Workspace{}).Error
}
