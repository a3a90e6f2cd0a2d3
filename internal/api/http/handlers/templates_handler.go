package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/api/dto"
	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/repository"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// TemplatesHandler is a pass-through to the tenant configuration store.
type TemplatesHandler struct {
	templates repository.TemplateRepository
	settings  repository.SettingsRepository
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templates repository.TemplateRepository, settings repository.SettingsRepository) *TemplatesHandler {
	return &TemplatesHandler{templates: templates, settings: settings}
}

// List GET /templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.List(c.UserContext())
	if err != nil {
		return apperrors.NewTransientIOError(err)
	}
	items := make([]dto.TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, dto.TemplateResponse(tpl))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Upsert PUT /templates.
func (h *TemplatesHandler) Upsert(c *fiber.Ctx) error {
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return apperrors.NewValidationError("title and body required", nil)
	}

	tpl := domain.ReplyTemplate{Title: req.Title, Category: req.Category, Body: req.Body}
	if err := h.templates.Upsert(c.UserContext(), tpl); err != nil {
		return apperrors.NewTransientIOError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TemplateResponse(tpl)})
}

// Delete DELETE /templates/:title.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	title := c.Params("title")
	if title == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if err := h.templates.Delete(c.UserContext(), title); err != nil {
		return apperrors.NewTransientIOError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetAutoReply GET /settings/auto-reply.
func (h *TemplatesHandler) GetAutoReply(c *fiber.Ctx) error {
	enabled, err := h.settings.AutoReplyEnabled(c.UserContext(), true)
	if err != nil {
		return apperrors.NewTransientIOError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"enabled": enabled}})
}

// SetAutoReply PUT /settings/auto-reply.
func (h *TemplatesHandler) SetAutoReply(c *fiber.Ctx) error {
	var req dto.AutoReplySettingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.settings.SetAutoReplyEnabled(c.UserContext(), req.Enabled); err != nil {
		return apperrors.NewTransientIOError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"enabled": req.Enabled}})
}
