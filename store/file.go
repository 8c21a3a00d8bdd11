package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
)

type fileStore struct {
	db *gorm.DB
}

func (s *fileStore) Create(ctx context.Context, tx *gorm.DB, file *model.File) error {
	return conn(s.db, ctx, tx).Create(file).Error
}

func (s *fileStore) GetByID(ctx context.Context, fileID uuid.UUID) (model.File, error) {
	var file model.File
	err := s.db.WithContext(ctx).
		Where("id = ?", fileID).
		First(&file).Error
	return file, err
}

func (s *fileStore) FindByWorkspaceAndName(ctx context.Context, workspaceID uuid.UUID, name, extension string) (model.File, error) {
	var file model.File
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND name = ? AND extension = ?", workspaceID, name, extension).
		First(&file).Error
	return file, err
}

func (s *fileStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]model.File, int64, error) {
	base := s.db.WithContext(ctx).
		Model(&model.File{}).
		Where("workspace_id = ?", workspaceID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []model.File
	err := base.
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error
	return files, total, err
}

func (s *fileStore) Delete(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) error {
	return conn(s.db, ctx, tx).Where("id = ?", fileID).Delete(&model.File{}).Error
}
