package dto

import (
	"time"

	"github.com/spec-kit/support-engine/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body string `json:"body"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response. SLA fields are computed per read.
type TicketSummary struct {
	ID             string              `json:"id"`
	Subject        string              `json:"subject"`
	MerchantID     string              `json:"merchant_id"`
	MerchantName   string              `json:"merchant_name"`
	Status         domain.TicketStatus `json:"status"`
	Overdue        bool                `json:"overdue"`
	RemainingHours *int                `json:"remaining_hours"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info including the thread.
type TicketDetailResponse struct {
	TicketSummary
	Messages []MessageResponse `json:"messages"`
}

// MessageResponse represents one thread message.
type MessageResponse struct {
	ID            string            `json:"id"`
	Sender        domain.SenderRole `json:"sender"`
	SenderID      *string           `json:"sender_id"`
	Body          string            `json:"body"`
	AutoGenerated bool              `json:"auto_generated"`
	CreatedAt     time.Time         `json:"created_at"`
}
