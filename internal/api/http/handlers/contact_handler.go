package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/dto"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

const msgContactMessageCreated = "Contact message created successfully"

// ContactHandler manages contact form endpoints.
type ContactHandler struct {
	service *service.ContactService
}

// NewContactHandler constructs handler.
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{service: contactService}
}

// Create POST /contact. Public.
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return envelope.NewValidation(msgMissingField, nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.EmailAddress == "" || req.Message == "" {
		return envelope.NewValidation(msgMissingField, nil)
	}

	message, err := h.service.Create(c.Context(), req.FirstName, req.LastName, req.EmailAddress, req.Message)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.CreatedResponse{ID: message.ID}, msgContactMessageCreated, http.StatusCreated)
}

// List GET /contact.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	keyword, page := parseListQuery(c)
	messages, total, err := h.service.List(c.Context(), keyword, page)
	if err != nil {
		return err
	}

	items := make([]dto.ContactMessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, contactMessageResponse(&messages[i]))
	}
	normalized := page.Normalize()
	return envelope.Success(c, dto.ContactListResponse{
		ContactMessages: items,
		Total:           total,
		Page:            normalized.Page,
		PerPage:         normalized.PerPage,
	}, msgDataFetched, http.StatusOK)
}

// GetByID GET /contact/:id.
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	message, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return envelope.Success(c, contactMessageResponse(message), msgDataFetched, http.StatusOK)
}

func contactMessageResponse(message *domain.ContactMessage) dto.ContactMessageResponse {
	return dto.ContactMessageResponse{
		ID:           message.ID,
		FirstName:    message.FirstName,
		LastName:     message.LastName,
		EmailAddress: message.EmailAddress,
		Message:      message.Message,
		CreatedAt:    message.CreatedAt,
	}
}
