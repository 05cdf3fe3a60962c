package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/traindesk/api/internal/model"
	"github.com/traindesk/api/internal/service"
	"github.com/traindesk/api/internal/store"
	"github.com/traindesk/api/pkg/response"
)

type ImportHandler struct {
	service   *service.ImportService
	validator *validator.Validate
}

func NewImportHandler(svc *service.ImportService, v *validator.Validate) *ImportHandler {
	return &ImportHandler{
		service:   svc,
		validator: v,
	}
}

// Start handles POST /api/training-plans/import
func (h *ImportHandler) Start(c *fiber.Ctx) error {
	var req model.ImportStartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.StartImport(c.Context(), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/training-plans/import/status?jobId=…
func (h *ImportHandler) Status(c *fiber.Ctx) error {
	jobID := c.Query("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetStatus(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
