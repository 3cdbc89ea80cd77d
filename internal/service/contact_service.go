package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/query"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

var contactEmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const messagePreviewLen = 120

// ContactService stores contact form submissions and raises the
// notification event.
type ContactService struct {
	repo       repository.ContactRepository
	dispatcher events.Dispatcher
}

// NewContactService builds the service.
func NewContactService(repo repository.ContactRepository, dispatcher events.Dispatcher) *ContactService {
	return &ContactService{repo: repo, dispatcher: dispatcher}
}

// Create persists a submission and publishes contact_message_received.
func (s *ContactService) Create(ctx context.Context, firstName, lastName, email, message string) (*domain.ContactMessage, error) {
	if !contactEmailPattern.MatchString(email) {
		return nil, envelope.NewValidation("Please enter a valid email address", nil)
	}

	record := &domain.ContactMessage{
		FirstName:    firstName,
		LastName:     lastName,
		EmailAddress: email,
		Message:      message,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		preview := record.Message
		if len(preview) > messagePreviewLen {
			preview = preview[:messagePreviewLen]
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventContactMessageReceived,
			Timestamp: time.Now(),
			Payload: events.ContactMessageReceivedPayload{
				MessageID:    record.ID,
				FirstName:    record.FirstName,
				LastName:     record.LastName,
				EmailAddress: record.EmailAddress,
				Preview:      preview,
			},
		})
	}
	return record, nil
}

// GetByID fetches a single contact message.
func (s *ContactService) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, envelope.NewNotFound("Data not found", nil)
		}
		return nil, err
	}
	return record, nil
}

// List returns one page of contact messages plus the pre-pagination total.
func (s *ContactService) List(ctx context.Context, keyword string, page query.Page) ([]domain.ContactMessage, int, error) {
	return s.repo.ListPage(ctx, keyword, page)
}
