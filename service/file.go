package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
	"github.com/mastkeey/cb-cloud-service/pkg/util"
	"github.com/mastkeey/cb-cloud-service/store"
)

// FileUpload is one incoming file, decoupled from multipart plumbing.
type FileUpload struct {
	Name        string
	Content     io.Reader
	ContentType string
}

// DownloadOutput pairs the blob stream with its metadata. The caller
// must close Content.
type DownloadOutput struct {
	File    model.File
	Content io.ReadCloser
}

// FileService manages file lifecycle inside a workspace. Blobs always
// live in the workspace OWNER's bucket, whichever member acts.
type FileService struct {
	stores  store.Stores
	storage ObjectStorage
}

func NewFileService(stores store.Stores, storage ObjectStorage) *FileService {
	return &FileService{stores: stores, storage: storage}
}

// Upload stores a batch of files. Each file is an independent
// operation: a failure partway through leaves the earlier files
// uploaded.
func (s *FileService) Upload(ctx context.Context, userID, workspaceID uuid.UUID, uploads []FileUpload) error {
	if err := s.requireMembership(ctx, userID, workspaceID); err != nil {
		return err
	}

	workspace, owner, err := s.resolveWorkspaceOwner(ctx, workspaceID)
	if err != nil {
		return err
	}

	for _, upload := range uploads {
		if err := s.uploadFile(ctx, upload, workspace, owner); err != nil {
			return err
		}
	}

	return nil
}

// uploadFile writes one blob and its metadata. A file with the same
// base name and extension already in the workspace is overwritten in
// place at its existing stored path, the row is left alone. A new file
// gets its blob written first and the row committed after, so a
// failure can only leave an orphaned blob, never a dangling row.
func (s *FileService) uploadFile(ctx context.Context, upload FileUpload, workspace model.Workspace, owner model.User) error {
	if strings.TrimSpace(upload.Name) == "" {
		return newBadRequest("invalid file name")
	}

	base, ext := util.SplitFileName(upload.Name)
	path := util.RelativePath(workspace.Name, base, ext)

	existing, err := s.stores.Files.FindByWorkspaceAndName(ctx, workspace.ID, base, ext)
	if err == nil {
		if err := s.storage.Upload(ctx, owner.BucketName, existing.Path, upload.Content, upload.ContentType); err != nil {
			return newInternal("error uploading file to storage", err)
		}

		zap.L().Debug("File overwritten",
			zap.String("workspaceID", workspace.ID.String()),
			zap.String("path", existing.Path))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return newInternal("failed to query file", err)
	}

	if err := s.storage.Upload(ctx, owner.BucketName, path, upload.Content, upload.ContentType); err != nil {
		return newInternal("error uploading file to storage", err)
	}

	file := model.File{
		WorkspaceID: workspace.ID,
		Name:        base,
		Extension:   ext,
		Path:        path,
	}
	if err := s.stores.Files.Create(ctx, nil, &file); err != nil {
		// Lost a race against a concurrent upload of the same name. The
		// blob landed at the same key either way, last write wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}

		if delErr := s.storage.Delete(ctx, owner.BucketName, path); delErr != nil {
			zap.L().Warn("Failed to clean up blob after aborted insert",
				zap.String("bucket", owner.BucketName),
				zap.String("path", path),
				zap.Error(delErr))
		}
		return newInternal("failed to save file", err)
	}

	zap.L().Debug("File uploaded",
		zap.String("workspaceID", workspace.ID.String()),
		zap.String("path", path))

	return nil
}

// ListInfo returns one page of file metadata for the workspace.
func (s *FileService) ListInfo(ctx context.Context, userID, workspaceID uuid.UUID, req PageRequest) (Page[model.File], error) {
	if err := s.requireMembership(ctx, userID, workspaceID); err != nil {
		return Page[model.File]{}, err
	}

	files, total, err := s.stores.Files.ListByWorkspace(ctx, workspaceID, req.offset(), req.Size)
	if err != nil {
		return Page[model.File]{}, newInternal("failed to list files", err)
	}

	return newPage(files, req, total), nil
}

// Delete removes a file. The blob goes first: if the storage delete
// fails the row stays, because a dangling row pointing at nothing is
// unrecoverable while an orphaned blob can be found by listing the
// bucket.
func (s *FileService) Delete(ctx context.Context, userID, fileID, workspaceID uuid.UUID) error {
	file, err := s.resolveFile(ctx, fileID, workspaceID)
	if err != nil {
		return err
	}

	if err := s.requireMembership(ctx, userID, workspaceID); err != nil {
		return err
	}

	_, owner, err := s.resolveWorkspaceOwner(ctx, workspaceID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, owner.BucketName, file.Path); err != nil {
		return newInternal("error deleting file in storage", err)
	}

	if err := s.stores.Files.Delete(ctx, nil, fileID); err != nil {
		return newInternal("failed to delete file", err)
	}

	zap.L().Info("File deleted",
		zap.String("fileID", fileID.String()),
		zap.String("workspaceID", workspaceID.String()))

	return nil
}

// Download opens the blob stream for a file after the same checks as
// Delete.
func (s *FileService) Download(ctx context.Context, userID, fileID, workspaceID uuid.UUID) (DownloadOutput, error) {
	file, err := s.resolveFile(ctx, fileID, workspaceID)
	if err != nil {
		return DownloadOutput{}, err
	}

	if err := s.requireMembership(ctx, userID, workspaceID); err != nil {
		return DownloadOutput{}, err
	}

	_, owner, err := s.resolveWorkspaceOwner(ctx, workspaceID)
	if err != nil {
		return DownloadOutput{}, err
	}

	content, err := s.storage.Download(ctx, owner.BucketName, file.Path)
	if err != nil {
		return DownloadOutput{}, newInternal("error downloading file from storage", err)
	}

	return DownloadOutput{File: file, Content: content}, nil
}

// resolveFile loads the file and checks it actually belongs to the
// claimed workspace. The mismatch case is Forbidden: the file exists
// but not where the caller says, which smells like probing.
func (s *FileService) resolveFile(ctx context.Context, fileID, workspaceID uuid.UUID) (model.File, error) {
	file, err := s.stores.Files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.File{}, newBadRequest("file with id %s not found", fileID)
		}
		return model.File{}, newInternal("failed to query file", err)
	}

	if file.WorkspaceID != workspaceID {
		return model.File{}, newForbidden("file with id %s does not belong to workspace %s", fileID, workspaceID)
	}

	return file, nil
}

func (s *FileService) requireMembership(ctx context.Context, userID, workspaceID uuid.UUID) error {
	_, err := s.stores.Memberships.Find(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newForbidden("workspace with id %s not linked to user %s", workspaceID, userID)
		}
		return newInternal("failed to query membership", err)
	}
	return nil
}

func (s *FileService) resolveWorkspaceOwner(ctx context.Context, workspaceID uuid.UUID) (model.Workspace, model.User, error) {
	workspace, err := s.stores.Workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Workspace{}, model.User{}, newNotFound("workspace with id %s not found", workspaceID)
		}
		return model.Workspace{}, model.User{}, newInternal("failed to query workspace", err)
	}

	owner, err := s.stores.Users.GetByID(ctx, workspace.OwnerID)
	if err != nil {
		return model.Workspace{}, model.User{}, newInternal("failed to query workspace owner", err)
	}

	return workspace, owner, nil
}
