package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/api/dto"
	"github.com/spec-kit/support-engine/internal/auth"
	"github.com/spec-kit/support-engine/internal/config"
	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/service"
	apperrors "github.com/spec-kit/support-engine/pkg/util"
)

// TicketsHandler manages ticket endpoints for both roles.
type TicketsHandler struct {
	service *service.TicketService
	support config.SupportConfig
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, support config.SupportConfig) *TicketsHandler {
	return &TicketsHandler{service: ticketService, support: support}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), *actor, req.Subject, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}

	var statuses []domain.TicketStatus
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			statuses = append(statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	tickets, err := h.service.ListTickets(c.UserContext(), *actor, statuses, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, h.ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	ticket, msgs, err := h.service.GetTicket(c.UserContext(), *actor, c.Params("id"))
	if err != nil {
		return err
	}

	detail := dto.TicketDetailResponse{
		TicketSummary: h.ticketSummary(ticket),
		Messages:      make([]dto.MessageResponse, 0, len(msgs)),
	}
	for i := range msgs {
		detail.Messages = append(detail.Messages, messageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msg, err := h.service.SubmitMessage(c.UserContext(), *actor, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

// SetStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) SetStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.SetStatus(c.UserContext(), *actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketSummary(ticket)})
}

// ExportTranscript GET /tickets/:id/transcript.
func (h *TicketsHandler) ExportTranscript(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("actor required")
	}
	transcript, err := h.service.ExportTranscript(c.UserContext(), *actor, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(transcript)
}

func (h *TicketsHandler) ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	now := time.Now()
	return dto.TicketSummary{
		ID:             ticket.ID,
		Subject:        ticket.Subject,
		MerchantID:     ticket.MerchantID,
		MerchantName:   ticket.MerchantName,
		Status:         ticket.Status,
		Overdue:        service.IsOverdue(ticket, h.support.SLAHours, now),
		RemainingHours: service.RemainingHours(ticket, h.support.SLAHours, now),
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:            msg.ID,
		Sender:        msg.Sender,
		SenderID:      msg.SenderID,
		Body:          msg.Body,
		AutoGenerated: msg.AutoGenerated,
		CreatedAt:     msg.CreatedAt,
	}
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
