package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/dto"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

// TeamHandler manages team member CRUD endpoints.
type TeamHandler struct {
	service *service.TeamService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{service: teamService}
}

// Create POST /team.
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	name := c.FormValue("name")
	role := c.FormValue("role")
	description := c.FormValue("description")
	image, closeImage, err := formFile(c, "images")
	if err != nil {
		return err
	}
	if closeImage != nil {
		defer closeImage()
	}

	if name == "" || role == "" || description == "" || image == nil {
		return envelope.NewValidation(msgMissingField, nil)
	}

	member, err := h.service.Create(c.Context(), name, role, description, image)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.CreatedResponse{ID: member.ID}, msgDataCreated, http.StatusCreated)
}

// List GET /team.
func (h *TeamHandler) List(c *fiber.Ctx) error {
	keyword, page := parseListQuery(c)
	members, total, err := h.service.List(c.Context(), keyword, page)
	if err != nil {
		return err
	}

	items := make([]dto.TeamMemberResponse, 0, len(members))
	for i := range members {
		items = append(items, teamMemberResponse(&members[i]))
	}
	normalized := page.Normalize()
	return envelope.Success(c, dto.TeamListResponse{
		TeamMembers: items,
		Total:       total,
		Page:        normalized.Page,
		PerPage:     normalized.PerPage,
	}, msgDataFetched, http.StatusOK)
}

// GetByID GET /team/:id.
func (h *TeamHandler) GetByID(c *fiber.Ctx) error {
	member, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return envelope.Success(c, teamMemberResponse(member), msgDataFetched, http.StatusOK)
}

// Update PATCH /team/:id.
func (h *TeamHandler) Update(c *fiber.Ctx) error {
	image, closeImage, err := formFile(c, "images")
	if err != nil {
		return err
	}
	if closeImage != nil {
		defer closeImage()
	}

	patch := domain.TeamMemberPatch{
		Name:        optional(c.FormValue("name")),
		Role:        optional(c.FormValue("role")),
		Description: optional(c.FormValue("description")),
	}
	member, err := h.service.Update(c.Context(), c.Params("id"), patch, image)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.CreatedResponse{ID: member.ID}, msgDataUpdated, http.StatusOK)
}

// Delete DELETE /team/:id.
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return envelope.Success(c, nil, msgDataDeleted, http.StatusOK)
}

func teamMemberResponse(member *domain.TeamMember) dto.TeamMemberResponse {
	return dto.TeamMemberResponse{
		ID:          member.ID,
		Name:        member.Name,
		Role:        member.Role,
		Description: member.Description,
		Image:       member.Image,
		CreatedAt:   member.CreatedAt,
	}
}
