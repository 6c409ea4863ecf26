package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/avatars"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditrepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/catalog"
	"github.com/mrlokans/bookshelf/internal/database/collection"
	"github.com/mrlokans/bookshelf/internal/database/notes"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/services"
)

type testApp struct {
	router     *gin.Engine
	db         *database.Database
	users      *users.Repository
	catalog    *catalog.Repository
	collection *collection.Repository
	notes      *notes.Repository
	audit      *audit.Service
	avatars    *avatars.Store
	books      []entities.Book
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.NewQuietDatabase(filepath.Join(dir, "bookshelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	authCfg := config.Auth{
		SessionLifetime:  time.Hour,
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 5,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  time.Minute,
	}
	sessions, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	app := &testApp{
		db:         db,
		users:      users.NewRepository(db.DB),
		catalog:    catalog.NewRepository(db.DB),
		collection: collection.NewRepository(db.DB),
		notes:      notes.NewRepository(db.DB),
	}
	app.audit = audit.NewService(auditrepo.NewRepository(db.DB))
	t.Cleanup(app.audit.Wait)

	app.avatars, err = avatars.NewStore(filepath.Join(dir, "static", config.DefaultAvatarDir))
	require.NoError(t, err)

	authService := auth.NewService(app.users, sessions, authCfg)
	authController := auth.NewAuthController(authService, authCfg, app.audit)
	t.Cleanup(authController.Stop)

	app.router, err = NewRouter(RouterConfig{
		HealthChecks:   map[string]Pinger{"database": db, "avatars": app.avatars},
		Version:        "test",
		SessionManager: sessions,
		AuthMiddleware: auth.NewMiddleware(authService),
		AuthController: authController,
		Catalog:        services.NewCatalogService(app.catalog),
		Collection:     services.NewCollectionService(app.catalog, app.collection, app.audit),
		Notes:          services.NewNotesService(app.notes, app.audit),
		Profile:        services.NewProfileService(app.users, app.avatars, syncRemover{app.avatars}, app.audit),
		StaticPath:     filepath.Join(dir, "static"),
	})
	require.NoError(t, err)

	app.books = []entities.Book{
		{Title: "Dune", Writer: "Frank Herbert", Genre: "Sci-Fi", Image: "dune.jpg"},
		{Title: "The Hobbit", Writer: "J. R. R. Tolkien", Genre: "Fantasy", Image: "hobbit.jpg"},
		{Title: "Foundation", Writer: "Isaac Asimov", Genre: "Sci-Fi", Image: "foundation.jpg"},
	}
	require.NoError(t, app.catalog.CreateBooks(app.books))

	return app
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func (a *testApp) newClient(t *testing.T) *client {
	return &client{t: t, router: a.router, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postMultipart(path string, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(cl.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("profile_img", fileName)
		require.NoError(cl.t, err)
		_, err = fw.Write(content)
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

// signUpAndLogin registers username and returns a logged-in client.
func (a *testApp) signUpAndLogin(t *testing.T, username string) (*client, *entities.User) {
	t.Helper()
	cl := a.newClient(t)

	w := cl.postForm("/sign-up", url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {"pw1"},
		"confirm_password": {"pw1"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	w = cl.postForm("/login", url.Values{"username": {username}, "password": {"pw1"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/main-page", w.Header().Get("Location"))

	user, err := a.users.GetUserByUsername(username)
	require.NoError(t, err)
	return cl, user
}

// syncRemover deletes replaced avatars inline instead of via the task queue.
type syncRemover struct {
	store *avatars.Store
}

func (r syncRemover) RemoveAvatar(name string) error {
	return r.store.Remove(name)
}
