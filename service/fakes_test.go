package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mastkeey/cb-cloud-service/model"
	"github.com/mastkeey/cb-cloud-service/store"
)

// memDB is a tiny in-memory stand-in for the gorm-backed stores. It
// keeps the same contract: not-found is gorm.ErrRecordNotFound, unique
// violations are gorm.ErrDuplicatedKey.
type memDB struct {
	users       map[uuid.UUID]model.User
	workspaces  map[uuid.UUID]model.Workspace
	files       map[uuid.UUID]model.File
	memberships map[uuid.UUID]model.UserWorkspace

	clock time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[uuid.UUID]model.User{},
		workspaces:  map[uuid.UUID]model.Workspace{},
		files:       map[uuid.UUID]model.File{},
		memberships: map[uuid.UUID]model.UserWorkspace{},
		clock:       time.Unix(1700000000, 0),
	}
}

// now returns a strictly increasing timestamp so insertion order is
// observable through CreatedAt sorting.
func (db *memDB) now() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) memberWorkspaces(userID uuid.UUID) []model.Workspace {
	var out []model.Workspace
	for _, m := range db.memberships {
		if m.UserID == userID {
			if w, ok := db.workspaces[m.WorkspaceID]; ok {
				out = append(out, w)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type memTx struct {
	err error
}

func (m *memTx) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

type memUsers struct {
	db        *memDB
	createErr error
}

func (s *memUsers) Create(_ context.Context, _ *gorm.DB, user *model.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, u := range s.db.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.db.now()
	s.db.users[user.ID] = *user
	return nil
}

func (s *memUsers) CountByUsername(_ context.Context, username string) (int64, error) {
	var count int64
	for _, u := range s.db.users {
		if u.Username == username {
			count++
		}
	}
	return count, nil
}

func (s *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range s.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, gorm.ErrRecordNotFound
}

func (s *memUsers) GetByID(_ context.Context, userID uuid.UUID) (model.User, error) {
	u, ok := s.db.users[userID]
	if !ok {
		return model.User{}, gorm.ErrRecordNotFound
	}
	u.Workspaces = s.db.memberWorkspaces(userID)
	return u, nil
}

type memWorkspaces struct {
	db        *memDB
	createErr error
	saveErr   error
}

func (s *memWorkspaces) Create(_ context.Context, _ *gorm.DB, workspace *model.Workspace) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, w := range s.db.workspaces {
		if w.OwnerID == workspace.OwnerID && w.Name == workspace.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if workspace.ID == uuid.Nil {
		workspace.ID = uuid.New()
	}
	workspace.CreatedAt = s.db.now()
	s.db.workspaces[workspace.ID] = *workspace
	return nil
}

func (s *memWorkspaces) Save(_ context.Context, _ *gorm.DB, workspace *model.Workspace) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.db.workspaces[workspace.ID] = *workspace
	return nil
}

func (s *memWorkspaces) GetByID(_ context.Context, workspaceID uuid.UUID) (model.Workspace, error) {
	w, ok := s.db.workspaces[workspaceID]
	if !ok {
		return model.Workspace{}, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (s *memWorkspaces) FindByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (model.Workspace, error) {
	for _, w := range s.db.workspaces {
		if w.OwnerID == ownerID && w.Name == name {
			return w, nil
		}
	}
	return model.Workspace{}, gorm.ErrRecordNotFound
}

func (s *memWorkspaces) ListByMember(_ context.Context, userID uuid.UUID, offset, limit int) ([]model.Workspace, int64, error) {
	all := s.db.memberWorkspaces(userID)
	total := int64(len(all))

	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (s *memWorkspaces) ListAllByMember(_ context.Context, userID uuid.UUID) ([]model.Workspace, error) {
	return s.db.memberWorkspaces(userID), nil
}

func (s *memWorkspaces) Delete(_ context.Context, _ *gorm.DB, workspaceID uuid.UUID) error {
	for id, f := range s.db.files {
		if f.WorkspaceID == workspaceID {
			delete(s.db.files, id)
		}
	}
	delete(s.db.workspaces, workspaceID)
	return nil
}

type memFiles struct {
	db        *memDB
	createErr error
}

func (s *memFiles) Create(_ context.Context, _ *gorm.DB, file *model.File) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, f := range s.db.files {
		if f.WorkspaceID == file.WorkspaceID && f.Name == file.Name && f.Extension == file.Extension {
			return gorm.ErrDuplicatedKey
		}
	}
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	file.CreatedAt = s.db.now()
	s.db.files[file.ID] = *file
	return nil
}

func (s *memFiles) GetByID(_ context.Context, fileID uuid.UUID) (model.File, error) {
	f, ok := s.db.files[fileID]
	if !ok {
		return model.File{}, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (s *memFiles) FindByWorkspaceAndName(_ context.Context, workspaceID uuid.UUID, name, extension string) (model.File, error) {
	for _, f := range s.db.files {
		if f.WorkspaceID == workspaceID && f.Name == name && f.Extension == extension {
			return f, nil
		}
	}
	return model.File{}, gorm.ErrRecordNotFound
}

func (s *memFiles) ListByWorkspace(_ context.Context, workspaceID uuid.UUID, offset, limit int) ([]model.File, int64, error) {
	var all []model.File
	for _, f := range s.db.files {
		if f.WorkspaceID == workspaceID {
			all = append(all, f)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (s *memFiles) Delete(_ context.Context, _ *gorm.DB, fileID uuid.UUID) error {
	delete(s.db.files, fileID)
	return nil
}

type memMemberships struct {
	db *memDB
}

func (s *memMemberships) Create(_ context.Context, _ *gorm.DB, membership *model.UserWorkspace) error {
	for _, m := range s.db.memberships {
		if m.UserID == membership.UserID && m.WorkspaceID == membership.WorkspaceID {
			return gorm.ErrDuplicatedKey
		}
	}
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}
	s.db.memberships[membership.ID] = *membership
	return nil
}

func (s *memMemberships) Find(_ context.Context, userID, workspaceID uuid.UUID) (model.UserWorkspace, error) {
	for _, m := range s.db.memberships {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			return m, nil
		}
	}
	return model.UserWorkspace{}, gorm.ErrRecordNotFound
}

func (s *memMemberships) DeleteByWorkspace(_ context.Context, _ *gorm.DB, workspaceID uuid.UUID) error {
	for id, m := range s.db.memberships {
		if m.WorkspaceID == workspaceID {
			delete(s.db.memberships, id)
		}
	}
	return nil
}

func (s *memMemberships) DeleteByUserAndWorkspace(_ context.Context, _ *gorm.DB, userID, workspaceID uuid.UUID) error {
	for id, m := range s.db.memberships {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			delete(s.db.memberships, id)
		}
	}
	return nil
}

// fakeStorage is an in-memory ObjectStorage that records every call so
// tests can assert an operation was (or wasn't) reached.
type fakeStorage struct {
	buckets map[string]map[string][]byte
	calls   []string

	ensureErr error
	uploadErr error
	deleteErr error
	folderErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{buckets: map[string]map[string][]byte{}}
}

func (s *fakeStorage) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *fakeStorage) bucket(name string) map[string][]byte {
	b, ok := s.buckets[name]
	if !ok {
		b = map[string][]byte{}
		s.buckets[name] = b
	}
	return b
}

func (s *fakeStorage) EnsureBucket(_ context.Context, name string) error {
	s.record("ensure %s", name)
	if s.ensureErr != nil {
		return s.ensureErr
	}
	s.bucket(name)
	return nil
}

func (s *fakeStorage) Upload(_ context.Context, bucket, key string, body io.Reader, _ string) error {
	s.record("upload %s/%s", bucket, key)
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.bucket(bucket)[key] = data
	return nil
}

func (s *fakeStorage) Download(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	s.record("download %s/%s", bucket, key)
	data, ok := s.bucket(bucket)[key]
	if !ok {
		return nil, fmt.Errorf("no object at %s/%s", bucket, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, bucket, key string) error {
	s.record("delete %s/%s", bucket, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.bucket(bucket), key)
	return nil
}

func (s *fakeStorage) CreateFolder(_ context.Context, bucket, name string) error {
	s.record("mkdir %s/%s", bucket, name)
	if s.folderErr != nil {
		return s.folderErr
	}
	s.bucket(bucket)[name+"/"] = nil
	return nil
}

func (s *fakeStorage) DeleteFolder(_ context.Context, bucket, name string) error {
	s.record("rmdir %s/%s", bucket, name)
	if s.folderErr != nil {
		return s.folderErr
	}
	delete(s.bucket(bucket), name)
	return nil
}

// testEnv bundles the fakes behind real store.Stores wiring.
type testEnv struct {
	db          *memDB
	tx          *memTx
	users       *memUsers
	workspaces  *memWorkspaces
	files       *memFiles
	memberships *memMemberships
	storage     *fakeStorage
}

func newTestEnv() *testEnv {
	db := newMemDB()
	return &testEnv{
		db:          db,
		tx:          &memTx{},
		users:       &memUsers{db: db},
		workspaces:  &memWorkspaces{db: db},
		files:       &memFiles{db: db},
		memberships: &memMemberships{db: db},
		storage:     newFakeStorage(),
	}
}

func (e *testEnv) stores() store.Stores {
	return store.Stores{
		Tx:          e.tx,
		Users:       e.users,
		Workspaces:  e.workspaces,
		Files:       e.files,
		Memberships: e.memberships,
	}
}

// seedUser inserts a user with a provisioned bucket.
func (e *testEnv) seedUser(username string) model.User {
	id := uuid.New()
	user := model.User{
		ID:         id,
		Username:   username,
		BucketName: id.String(),
		CreatedAt:  e.db.now(),
	}
	e.db.users[id] = user
	e.storage.bucket(user.BucketName)
	return user
}

// seedWorkspace inserts a workspace owned by owner, with the owner's
// membership row and folder marker.
func (e *testEnv) seedWorkspace(owner model.User, name string) model.Workspace {
	workspace := model.Workspace{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   owner.ID,
		CreatedAt: e.db.now(),
	}
	e.db.workspaces[workspace.ID] = workspace
	e.seedMembership(owner, workspace)
	e.storage.bucket(owner.BucketName)[name+"/"] = nil
	return workspace
}

func (e *testEnv) seedMembership(user model.User, workspace model.Workspace) {
	m := model.UserWorkspace{ID: uuid.New(), UserID: user.ID, WorkspaceID: workspace.ID}
	e.db.memberships[m.ID] = m
}

func (e *testEnv) seedFile(workspace model.Workspace, owner model.User, original string, content []byte) model.File {
	base, ext := splitForTest(original)
	file := model.File{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		Name:        base,
		Extension:   ext,
		Path:        workspace.Name + "/" + base + "." + ext,
		CreatedAt:   e.db.now(),
	}
	e.db.files[file.ID] = file
	e.storage.bucket(owner.BucketName)[file.Path] = content
	return file
}

func splitForTest(name string) (string, string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
