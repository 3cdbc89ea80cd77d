package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/api/dto"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

// ProjectsHandler manages project CRUD endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// Create POST /project.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	title := c.FormValue("title")
	description := c.FormValue("description")
	image, closeImage, err := formFile(c, "images")
	if err != nil {
		return err
	}
	if closeImage != nil {
		defer closeImage()
	}

	if title == "" || description == "" || image == nil {
		return envelope.NewValidation(msgMissingField, nil)
	}

	project, err := h.service.Create(c.Context(), title, description, image)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.CreatedResponse{ID: project.ID}, msgDataCreated, http.StatusCreated)
}

// List GET /project.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	keyword, page := parseListQuery(c)
	projects, total, err := h.service.List(c.Context(), keyword, page)
	if err != nil {
		return err
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i]))
	}
	normalized := page.Normalize()
	return envelope.Success(c, dto.ProjectListResponse{
		Projects: items,
		Total:    total,
		Page:     normalized.Page,
		PerPage:  normalized.PerPage,
	}, msgDataFetched, http.StatusOK)
}

// GetByID GET /project/:id.
func (h *ProjectsHandler) GetByID(c *fiber.Ctx) error {
	project, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return envelope.Success(c, projectResponse(project), msgDataFetched, http.StatusOK)
}

// Update PATCH /project/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	image, closeImage, err := formFile(c, "images")
	if err != nil {
		return err
	}
	if closeImage != nil {
		defer closeImage()
	}

	patch := domain.ProjectPatch{
		Title:       optional(c.FormValue("title")),
		Description: optional(c.FormValue("description")),
	}
	project, err := h.service.Update(c.Context(), c.Params("id"), patch, image)
	if err != nil {
		return err
	}
	return envelope.Success(c, dto.CreatedResponse{ID: project.ID}, msgDataUpdated, http.StatusOK)
}

// Delete DELETE /project/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return envelope.Success(c, nil, msgDataDeleted, http.StatusOK)
}

func projectResponse(project *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Image:       project.Image,
		CreatedAt:   project.CreatedAt,
	}
}
