package services

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/collection"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/identity"
)

type testStores struct {
	users      *users.Repository
	catalog    *catalog.Repository
	collection *collection.Repository
	notes      *notes.Repository
}

func setupStores(t *testing.T) *testStores {
	t.Helper()
	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &testStores{
		users:      users.NewRepository(db.DB),
		catalog:    catalog.NewRepository(db.DB),
		collection: collection.NewRepository(db.DB),
		notes:      notes.NewRepository(db.DB),
	}
}

func (s *testStores) createUser(t *testing.T, username, email string) identity.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entities.User{Username: username, Email: email, PasswordHash: string(hash)}
	require.NoError(t, s.users.CreateUser(user))
	return identity.FromEntity(user)
}

func (s *testStores) seedCatalog(t *testing.T) []entities.Book {
	t.Helper()
	books := []entities.Book{
		{Title: "Dune", Writer: "Frank Herbert", Genre: "Sci-Fi", Image: "dune.jpg"},
		{Title: "The Hobbit", Writer: "J. R. R. Tolkien", Genre: "Fantasy", Image: "hobbit.jpg"},
		{Title: "Foundation", Writer: "Isaac Asimov", Genre: "Sci-Fi", Image: "foundation.jpg"},
	}
	require.NoError(t, s.catalog.CreateBooks(books))
	return books
}

type deleteCall struct {
	UserID     uint
	EntityType string
	EntityID   uint
}

type mockAuditor struct {
	mu       sync.Mutex
	deletes  []deleteCall
	profiles []string
}

func (m *mockAuditor) LogDelete(userID uint, entityType string, entityID uint, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, deleteCall{UserID: userID, EntityType: entityType, EntityID: entityID})
}

func (m *mockAuditor) LogProfileUpdate(_ uint, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, description)
}

// memoryAvatars is an AvatarStore that keeps files in a map.
type memoryAvatars struct {
	files   map[string]string
	removed []string
	next    int
}

func newMemoryAvatars() *memoryAvatars {
	return &memoryAvatars{files: map[string]string{}}
}

func (m *memoryAvatars) Save(r io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.next++
	name := strings.Repeat("f", m.next) + filepath.Ext(originalName)
	m.files[name] = string(data)
	return name, nil
}

func (m *memoryAvatars) Remove(name string) error {
	delete(m.files, name)
	m.removed = append(m.removed, name)
	return nil
}

type recordingRemover struct {
	names []string
}

func (r *recordingRemover) RemoveAvatar(name string) error {
	r.names = append(r.names, name)
	return nil
}
