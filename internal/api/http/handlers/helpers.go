package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cms-service/internal/query"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

// Messages shared by all resource handlers.
const (
	msgDataCreated  = "Data created successfully"
	msgDataUpdated  = "Data updated successfully"
	msgDataDeleted  = "Data deleted successfully"
	msgDataFetched  = "Data fetched successfully"
	msgMissingField = "Missing required fields"
)

// parseListQuery extracts pagination and keyword search parameters from a
// list request.
func parseListQuery(c *fiber.Ctx) (keyword string, page query.Page) {
	page = query.Page{
		Page:      parseInt(c.Query("page"), query.DefaultPage),
		PerPage:   parseInt(c.Query("perPage"), query.DefaultPerPage),
		SortField: c.Query("sortField", "createdAt"),
		SortOrder: c.Query("sortOrder", "desc"),
	}
	return c.Query("keyword"), page
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// formFile pulls an optional multipart file from the request. The returned
// closer must be deferred by the caller; it is nil when no file was sent.
func formFile(c *fiber.Ctx, field string) (*service.FileUpload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil || header == nil {
		return nil, nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, envelope.NewValidation("Invalid file upload", nil)
	}
	upload := &service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	return upload, func() { _ = file.Close() }, nil
}

// optional returns a pointer when the form carried a non-empty value.
func optional(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
