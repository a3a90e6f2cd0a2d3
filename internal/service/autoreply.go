package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/config"
	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/observability"
	"github.com/spec-kit/support-engine/internal/repository"
)

// Throttler gates automated replies to one per ticket per cooldown
// window. State is process memory by contract: resetting on restart is
// an accepted safety margin, not a correctness requirement.
type Throttler struct {
	mu       sync.Mutex
	last     map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewThrottler creates a throttler with the given cooldown.
func NewThrottler(cooldown time.Duration) *Throttler {
	return &Throttler{
		last:     make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// TryAcquire atomically checks the cooldown and, when it has elapsed,
// stamps the ticket. Check and set run under one lock acquisition so
// two near-simultaneous messages can never both pass the gate.
func (t *Throttler) TryAcquire(ticketID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if last, ok := t.last[ticketID]; ok && now.Sub(last) < t.cooldown {
		return false
	}
	t.last[ticketID] = now
	return true
}

// Release drops a stamp taken by TryAcquire whose reply was never sent,
// so a transient store failure does not consume the cooldown window.
func (t *Throttler) Release(ticketID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, ticketID)
}

// AutoResponder sends a templated acknowledgment for inbound merchant
// messages, subject to the enablement flag and the per-ticket cooldown.
type AutoResponder struct {
	service   *TicketService
	templates repository.TemplateRepository
	settings  repository.SettingsRepository
	throttler *Throttler
	cfg       config.SupportConfig
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// NewAutoResponder builds the responder.
func NewAutoResponder(
	ticketService *TicketService,
	templates repository.TemplateRepository,
	settings repository.SettingsRepository,
	throttler *Throttler,
	cfg config.SupportConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
) *AutoResponder {
	return &AutoResponder{
		service:   ticketService,
		templates: templates,
		settings:  settings,
		throttler: throttler,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// RegisterHandlers subscribes the responder to message events.
func (a *AutoResponder) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessageAdded, a.handleMessageAdded)
}

// handleMessageAdded runs on the submission path via the synchronous
// dispatcher. Every failure is swallowed: an acknowledgment must never
// fail the triggering message.
func (a *AutoResponder) handleMessageAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageAddedPayload)
	if !ok {
		return nil
	}
	msg := payload.Message

	// Auto-generated messages are exempt regardless of throttle state,
	// so a reply can never trigger another reply.
	if msg.AutoGenerated {
		return nil
	}
	if msg.Sender != domain.SenderRoleMerchant {
		return nil
	}

	enabled, err := a.settings.AutoReplyEnabled(ctx, a.cfg.AutoReplyEnabledDefault)
	if err != nil {
		a.logger.Warn("read auto-reply flag", zap.Error(err))
	}
	if !enabled {
		a.metrics.RecordAutoReply(false)
		return nil
	}

	if !a.throttler.TryAcquire(msg.TicketID) {
		a.metrics.RecordAutoReply(false)
		return nil
	}

	body := a.renderBody(ctx, msg.TicketID, payload.MerchantName)
	if _, err := a.service.SubmitSystemMessage(ctx, msg.TicketID, body); err != nil {
		a.throttler.Release(msg.TicketID)
		a.logger.Warn("send auto-reply",
			zap.String("ticket_id", msg.TicketID), zap.Error(err))
		a.metrics.RecordAutoReply(false)
		return nil
	}

	a.metrics.RecordAutoReply(true)
	a.logger.Info("auto-reply sent", zap.String("ticket_id", msg.TicketID))
	return nil
}

const fallbackAutoReplyBody = "Hi {merchant_name}, we received your message on ticket {ticket_id} and will get back to you shortly."

func (a *AutoResponder) renderBody(ctx context.Context, ticketID, merchantName string) string {
	body := fallbackAutoReplyBody
	if tpl, err := a.templates.Get(ctx, a.cfg.AutoReplyTemplateTitle); err != nil {
		a.logger.Warn("load auto-reply template", zap.Error(err))
	} else if tpl != nil {
		body = tpl.Body
	}

	return RenderTemplate(body, RenderContext{
		MerchantName: merchantName,
		TicketID:     ticketID,
		Now:          a.now(),
		Signature:    a.cfg.Signature,
	})
}
