package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/query"
	"github.com/spec-kit/cms-service/internal/repository"
)

// fakeUserRepo keeps users in a map keyed by ID, enforcing the same
// case-insensitive email uniqueness the real table does.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.EmailAddress, user.EmailAddress) {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
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

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

// fakeProjectRepo stores projects in insertion order.
type fakeProjectRepo struct {
	mu       sync.Mutex
	nextID   int
	projects []domain.Project
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	project.ID = fmt.Sprintf("project-%d", r.nextID)
	r.projects = append(r.projects, *project)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
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

func (r *fakeProjectRepo) ListPage(_ context.Context, keyword string, page query.Page) ([]domain.Project, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var filtered []domain.Project
	for _, p := range r.projects {
		if keyword == "" ||
			strings.Contains(strings.ToLower(p.Title), strings.ToLower(keyword)) ||
			strings.Contains(strings.ToLower(p.Description), strings.ToLower(keyword)) {
			filtered = append(filtered, p)
		}
	}
	total := len(filtered)
	skip, limit := page.Skip(), page.Limit()
	if skip >= total {
		return nil, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return filtered[skip:end], total, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
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

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
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

// fakeStorage records bucket traffic instead of talking to S3.
type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failNext error
}

func (s *fakeStorage) Upload(_ context.Context, key, _ string, body io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	_, _ = io.Copy(io.Discard, body)
	s.uploaded = append(s.uploaded, key)
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) SignedURL(_ context.Context, key string) (string, error) {
	return "https://bucket.signed.example/" + key + "?sig=abc", nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
