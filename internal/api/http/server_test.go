package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/api/http/handlers"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/observability"
	"github.com/spec-kit/cms-service/internal/query"
	"github.com/spec-kit/cms-service/internal/service"
)

// In-memory stand-ins for the persistence and bucket layers so the full
// route table, gate and envelope can be exercised without infrastructure.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.users == nil {
		r.users = map[string]*domain.User{}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.EmailAddress, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type memProjectRepo struct {
	mu       sync.Mutex
	nextID   int
	projects []domain.Project
}

func (r *memProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	project.ID = fmt.Sprintf("project-%d", r.nextID)
	r.projects = append(r.projects, *project)
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == id {
			copied := r.projects[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memProjectRepo) ListPage(_ context.Context, _ string, page query.Page) ([]domain.Project, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := len(r.projects)
	skip, limit := page.Skip(), page.Limit()
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return append([]domain.Project{}, r.projects[skip:end]...), total, nil
}

func (r *memProjectRepo) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == project.ID {
			r.projects[i] = *project
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memTeamRepo struct {
	mu      sync.Mutex
	nextID  int
	members []domain.TeamMember
}

func (r *memTeamRepo) Create(_ context.Context, member *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	member.ID = fmt.Sprintf("member-%d", r.nextID)
	r.members = append(r.members, *member)
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id string) (*domain.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == id {
			copied := r.members[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTeamRepo) ListPage(_ context.Context, _ string, _ query.Page) ([]domain.TeamMember, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TeamMember{}, r.members...), len(r.members), nil
}

func (r *memTeamRepo) Update(_ context.Context, member *domain.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == member.ID {
			r.members[i] = *member
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memTeamRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.members {
		if r.members[i].ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memContactRepo struct {
	mu       sync.Mutex
	nextID   int
	messages []domain.ContactMessage
}

func (r *memContactRepo) Create(_ context.Context, message *domain.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	message.ID = fmt.Sprintf("msg-%d", r.nextID)
	r.messages = append(r.messages, *message)
	return nil
}

func (r *memContactRepo) GetByID(_ context.Context, id string) (*domain.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			copied := r.messages[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memContactRepo) ListPage(_ context.Context, _ string, _ query.Page) ([]domain.ContactMessage, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ContactMessage{}, r.messages...), len(r.messages), nil
}

type memStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (s *memStorage) Upload(_ context.Context, key, _ string, body io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.Copy(io.Discard, body)
	s.uploaded = append(s.uploaded, key)
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) SignedURL(_ context.Context, key string) (string, error) {
	return "https://bucket.signed.example/" + key, nil
}

func (s *memStorage) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

type testEnv struct {
	app   *fiber.App
	store *memStorage
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "cms-service", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
		Storage: config.StorageConfig{MaxUploadSizeMB: 5},
	}

	store := &memStorage{}
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   &memUserRepo{},
		Storage:    store,
		Dispatcher: dispatcher,
	})
	projectService := service.NewProjectService(cfg, &memProjectRepo{}, store, dispatcher)
	teamService := service.NewTeamService(cfg, &memTeamRepo{}, store, dispatcher)
	contactService := service.NewContactService(&memContactRepo{}, dispatcher)

	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil, nil),
		Auth:       handlers.NewAuthHandler(authService),
		Projects:   handlers.NewProjectsHandler(projectService),
		Team:       handlers.NewTeamHandler(teamService),
		Contact:    handlers.NewContactHandler(contactService),
		AccessGate: auth.NewMiddleware(authService.TokenManager()),
	})

	user, token, err := authService.Register(context.Background(), "Admin", "admin@example.com", "Sup3rSecret")
	require.NoError(t, err)
	require.NotNil(t, user)

	return &testEnv{app: app, store: store, token: token}
}

func (e *testEnv) do(t *testing.T, req *nethttp.Request) (*nethttp.Response, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func (e *testEnv) authed(req *nethttp.Request) *nethttp.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+e.token)
	return req
}

func jsonRequest(method, target string, payload any) *nethttp.Request {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField string) *nethttp.Request {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, "cover.png"))
		header.Set("Content-Type", "image/png")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestProjectLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Create.
	resp, body := env.do(t, env.authed(multipartRequest(t, nethttp.MethodPost, "/api/project",
		map[string]string{"title": "Portfolio", "description": "A portfolio site"}, "images")))
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Data created successfully", body["message"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	id, ok := data["_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	require.Len(t, env.store.uploaded, 1)
	storedKey := env.store.uploaded[0]

	// Read back, publicly.
	resp, body = env.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/project/"+id, nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Portfolio", data["title"])
	assert.Equal(t, "A portfolio site", data["description"])
	assert.Equal(t, storedKey, data["image"])

	// Delete releases exactly the stored key.
	resp, body = env.do(t, env.authed(httptest.NewRequest(nethttp.MethodDelete, "/api/project/"+id, nil)))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "Data deleted successfully", body["message"])
	assert.Equal(t, []string{storedKey}, env.store.deleted)

	// Gone afterwards.
	resp, body = env.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/project/"+id, nil))
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Data not found", body["message"])
}

func TestProjectCreate_RequiresToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, multipartRequest(t, nethttp.MethodPost, "/api/project",
		map[string]string{"title": "T", "description": "D"}, "images"))
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, auth.MsgNoTokenProvided, body["message"])
	assert.Empty(t, env.store.uploaded, "nothing reaches the bucket without a token")
}

func TestProjectCreate_MissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, env.authed(multipartRequest(t, nethttp.MethodPost, "/api/project",
		map[string]string{"title": "Only title"}, "")))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields", body["message"])
}

func TestProjectList_Envelope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		resp, _ := env.do(t, env.authed(multipartRequest(t, nethttp.MethodPost, "/api/project",
			map[string]string{"title": fmt.Sprintf("P%d", i), "description": "D"}, "images")))
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	}

	resp, body := env.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/project?page=1&perPage=2", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(1), data["page"])
	assert.Equal(t, float64(2), data["perPage"])
	assert.Len(t, data["projects"], 2)
}

func TestContactFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Submission is public.
	resp, body := env.do(t, jsonRequest(nethttp.MethodPost, "/api/contact", map[string]string{
		"firstName":    "Ada",
		"lastName":     "Lovelace",
		"emailAddress": "ada@example.com",
		"message":      "I would like a quote",
	}))
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Contact message created successfully", body["message"])

	// Reading requires the gate.
	resp, _ = env.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/contact", nil))
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp, body = env.do(t, env.authed(httptest.NewRequest(nethttp.MethodGet, "/api/contact", nil)))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total"])
	messages := data["contactMessages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "ada@example.com", messages[0].(map[string]any)["emailAddress"])
}

func TestSignupLoginAndCurrentUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, jsonRequest(nethttp.MethodPost, "/api/auth/signup", map[string]string{
		"fullName":     "Jane Admin",
		"emailAddress": "jane@example.com",
		"password":     "Sup3rSecret",
	}))
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	token, ok := data["accessToken"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	resp, body = env.do(t, jsonRequest(nethttp.MethodPost, "/api/auth/login", map[string]string{
		"emailAddress": "jane@example.com",
		"password":     "Sup3rSecret",
	}))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "User logged in successfully", body["message"])

	req := httptest.NewRequest(nethttp.MethodGet, "/api/auth/user", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, body = env.do(t, req)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["emailAddress"])
	assert.Equal(t, "Jane Admin", user["fullName"])
}

func TestLogin_BadCredentialsEnvelope(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, jsonRequest(nethttp.MethodPost, "/api/auth/login", map[string]string{
		"emailAddress": "admin@example.com",
		"password":     "WrongPass1",
	}))
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestRouteNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, httptest.NewRequest(nethttp.MethodGet, "/api/nope", nil))
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Route not found", body["message"])
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, body := env.do(t, httptest.NewRequest(nethttp.MethodGet, "/health/live", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "cms-service", body["service"])
}
