package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/query"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/internal/storage"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

// ProjectService coordinates project CRUD and the associated bucket assets.
type ProjectService struct {
	repo       repository.ProjectRepository
	store      ObjectStorage
	dispatcher events.Dispatcher
	maxUpload  int64
}

// NewProjectService builds the service.
func NewProjectService(cfg config.Config, repo repository.ProjectRepository, store ObjectStorage, dispatcher events.Dispatcher) *ProjectService {
	return &ProjectService{
		repo:       repo,
		store:      store,
		dispatcher: dispatcher,
		maxUpload:  cfg.Storage.MaxUploadBytes(),
	}
}

// Create uploads the image and persists a new project.
func (s *ProjectService) Create(ctx context.Context, title, description string, image *FileUpload) (*domain.Project, error) {
	key, err := uploadImage(ctx, s.store, image, storage.PathProjectImages, true, s.maxUpload)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		Title:       title,
		Description: description,
		Image:       key,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetByID fetches a single project.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, envelope.NewNotFound("Data not found", nil)
		}
		return nil, err
	}
	return project, nil
}

// List returns one page of projects plus the pre-pagination total.
func (s *ProjectService) List(ctx context.Context, keyword string, page query.Page) ([]domain.Project, int, error) {
	return s.repo.ListPage(ctx, keyword, page)
}

// Update applies a partial update. When a replacement image arrives the
// previous key is released after the record is saved.
func (s *ProjectService) Update(ctx context.Context, id string, patch domain.ProjectPatch, image *FileUpload) (*domain.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var replacedKey string
	if image != nil {
		key, err := uploadImage(ctx, s.store, image, storage.PathProjectImages, true, s.maxUpload)
		if err != nil {
			return nil, err
		}
		replacedKey = project.Image
		project.Image = key
	}
	if patch.Title != nil {
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	if replacedKey != "" {
		_ = s.store.Delete(ctx, replacedKey)
		s.publishAssetReleased(ctx, replacedKey)
	}
	return project, nil
}

// Delete removes the project and releases its stored image.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return envelope.NewNotFound("Data not found", nil)
		}
		return err
	}

	if err := s.store.Delete(ctx, project.Image); err != nil {
		return err
	}
	s.publishAssetReleased(ctx, project.Image)
	return nil
}

func (s *ProjectService) publishAssetReleased(ctx context.Context, key string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAssetReleased,
		Timestamp: time.Now(),
		Payload:   events.AssetReleasedPayload{Resource: "project", Key: key},
	})
}
