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

// TeamService coordinates team member CRUD and the associated bucket assets.
type TeamService struct {
	repo       repository.TeamRepository
	store      ObjectStorage
	dispatcher events.Dispatcher
	maxUpload  int64
}

// NewTeamService builds the service.
func NewTeamService(cfg config.Config, repo repository.TeamRepository, store ObjectStorage, dispatcher events.Dispatcher) *TeamService {
	return &TeamService{
		repo:       repo,
		store:      store,
		dispatcher: dispatcher,
		maxUpload:  cfg.Storage.MaxUploadBytes(),
	}
}

// Create uploads the image and persists a new team member.
func (s *TeamService) Create(ctx context.Context, name, role, description string, image *FileUpload) (*domain.TeamMember, error) {
	key, err := uploadImage(ctx, s.store, image, storage.PathTeamImages, true, s.maxUpload)
	if err != nil {
		return nil, err
	}

	member := &domain.TeamMember{
		Name:        name,
		Role:        role,
		Description: description,
		Image:       key,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// GetByID fetches a single team member.
func (s *TeamService) GetByID(ctx context.Context, id string) (*domain.TeamMember, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, envelope.NewNotFound("Data not found", nil)
		}
		return nil, err
	}
	return member, nil
}

// List returns one page of team members plus the pre-pagination total.
func (s *TeamService) List(ctx context.Context, keyword string, page query.Page) ([]domain.TeamMember, int, error) {
	return s.repo.ListPage(ctx, keyword, page)
}

// Update applies a partial update, releasing the replaced image when a new
// one is uploaded.
func (s *TeamService) Update(ctx context.Context, id string, patch domain.TeamMemberPatch, image *FileUpload) (*domain.TeamMember, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var replacedKey string
	if image != nil {
		key, err := uploadImage(ctx, s.store, image, storage.PathTeamImages, true, s.maxUpload)
		if err != nil {
			return nil, err
		}
		replacedKey = member.Image
		member.Image = key
	}
	if patch.Name != nil {
		member.Name = *patch.Name
	}
	if patch.Role != nil {
		member.Role = *patch.Role
	}
	if patch.Description != nil {
		member.Description = *patch.Description
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}

	if replacedKey != "" {
		_ = s.store.Delete(ctx, replacedKey)
		s.publishAssetReleased(ctx, replacedKey)
	}
	return member, nil
}

// Delete removes the team member and releases its stored image.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return envelope.NewNotFound("Data not found", nil)
		}
		return err
	}

	if err := s.store.Delete(ctx, member.Image); err != nil {
		return err
	}
	s.publishAssetReleased(ctx, member.Image)
	return nil
}

func (s *TeamService) publishAssetReleased(ctx context.Context, key string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAssetReleased,
		Timestamp: time.Now(),
		Payload:   events.AssetReleasedPayload{Resource: "team", Key: key},
	})
}
