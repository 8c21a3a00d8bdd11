package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
	"github.com/mastkeey/cb-cloud-service/pkg/security"
	"github.com/mastkeey/cb-cloud-service/store"
)

type RegisterOutput struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
}

type UserService struct {
	stores  store.Stores
	storage ObjectStorage
	tokens  *security.TokenService
	argon   *security.ArgonHash
}

func NewUserService(stores store.Stores, storage ObjectStorage, tokens *security.TokenService, argon *security.ArgonHash) *UserService {
	return &UserService{
		stores:  stores,
		storage: storage,
		tokens:  tokens,
		argon:   argon,
	}
}

// Register creates the user and provisions their bucket. The bucket is
// created before the row: a failed insert leaves an empty orphaned
// bucket, which is harmless, while a row without a bucket would break
// every upload.
func (s *UserService) Register(ctx context.Context, username, password string) (RegisterOutput, error) {
	count, err := s.stores.Users.CountByUsername(ctx, username)
	if err != nil {
		return RegisterOutput{}, newInternal("failed to check username", err)
	}
	if count > 0 {
		return RegisterOutput{}, newConflict("user with username %s already exist", username)
	}

	hash, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return RegisterOutput{}, newInternal("failed to hash password", err)
	}

	id := uuid.New()
	user := model.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		BucketName:   id.String(),
	}

	if err := s.storage.EnsureBucket(ctx, user.BucketName); err != nil {
		return RegisterOutput{}, newInternal("error while creating bucket", err)
	}

	if err := s.stores.Users.Create(ctx, nil, &user); err != nil {
		// Unique index on username catches the race the pre-check missed
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return RegisterOutput{}, newConflict("user with username %s already exist", username)
		}
		return RegisterOutput{}, newInternal("failed to create user", err)
	}

	zap.L().Info("User registered", zap.String("userID", user.ID.String()))

	token, err := s.tokens.Generate(&user)
	if err != nil {
		return RegisterOutput{}, newInternal("failed to generate token", err)
	}

	return RegisterOutput{ID: user.ID, Token: token}, nil
}

// Auth checks the credentials and issues a fresh token.
func (s *UserService) Auth(ctx context.Context, username, password string) (string, error) {
	user, err := s.stores.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newUnauthorized("incorrect username or password")
		}
		return "", newInternal("failed to query user", err)
	}

	ok, err := s.argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return "", newInternal("failed to verify password", err)
	}
	if !ok {
		return "", newUnauthorized("incorrect username or password")
	}

	token, err := s.tokens.Generate(&user)
	if err != nil {
		return "", newInternal("failed to generate token", err)
	}

	return token, nil
}

// LinkWorkspace grants the acting user membership of an existing
// workspace, e.g. one shared with them by its owner.
func (s *UserService) LinkWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error {
	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("user with id %s not found", userID)
		}
		return newInternal("failed to query user", err)
	}

	for _, w := range user.Workspaces {
		if w.ID == workspaceID {
			return newConflict("workspace with id %s already linked", workspaceID)
		}
	}

	if _, err := s.stores.Workspaces.GetByID(ctx, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newNotFound("workspace with id %s not found", workspaceID)
		}
		return newInternal("failed to query workspace", err)
	}

	membership := model.UserWorkspace{
		UserID:      userID,
		WorkspaceID: workspaceID,
	}
	if err := s.stores.Memberships.Create(ctx, nil, &membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newConflict("workspace with id %s already linked", workspaceID)
		}
		return newInternal("failed to link workspace", err)
	}

	zap.L().Info("Workspace linked to user",
		zap.String("userID", userID.String()),
		zap.String("workspaceID", workspaceID.String()))

	return nil
}
