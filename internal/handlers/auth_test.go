package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dheeraj-kumar123/portfolio/internal/services"
	"github.com/dheeraj-kumar123/portfolio/internal/store"
	"github.com/dheeraj-kumar123/portfolio/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// -------- test fakes --------

// fakeUserRepo keeps users in memory with the same email-uniqueness
// contract the real store enforces.
type fakeUserRepo struct {
	users  map[int]types.User
	nextID int
}

var _ services.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]types.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrEmailTaken
		}
	}
	f.nextID++
	user.ID = f.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = user
	return user, nil
}

// -------- helpers --------

func newAuthRouter(t *testing.T) (*chi.Mux, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	router := chi.NewRouter()
	router.Route("/api/auth", func(r chi.Router) {
		AuthRouter(r, services.NewUserService(repo), testJWTSecret)
	})
	return router, repo
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// -------- tests --------

func TestRegisterLoginMe(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "Deb",
		Email:    "deb@x.com",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "deb@x.com", registered.User.Email)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "deb@x.com",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loggedIn AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loggedIn))

	// The login token must resolve back to the registered account.
	subject, err := parseTokenSubject(loggedIn.Token, []byte(testJWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "1", subject)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deb@x.com")
}

func TestRegisterResponseNeverContainsPasswordMaterial(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "Deb",
		Email:    "deb@x.com",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := strings.ToLower(rec.Body.String())
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "pw123456")
	assert.NotContains(t, body, "$2a$")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, repo := newAuthRouter(t)

	payload := RegisterRequest{Name: "Deb", Email: "deb@x.com", Password: "pw123456"}
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, repo.users, 1, "no second account may be created")
}

func TestRegisterMissingFields(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email: "deb@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "nobody@x.com",
		Password: "pw123456",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "Deb",
		Email:    "deb@x.com",
		Password: "pw123456",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "deb@x.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRejectsBadTokens(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing token")

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "malformed token")

	expired, err := issueToken(1, []byte(testJWTSecret), -time.Hour)
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "expired token")

	wrongKey, err := issueToken(1, []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", wrongKey, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "token signed with wrong key")
}
