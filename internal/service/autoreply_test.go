package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/config"
	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/observability"
)

func TestThrottlerAtomicCheckAndSet(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	throttler := NewThrottler(10 * time.Minute)
	throttler.now = func() time.Time { return clock }

	assert.True(t, throttler.TryAcquire("t-1"))
	assert.False(t, throttler.TryAcquire("t-1"))

	clock = base.Add(9 * time.Minute)
	assert.False(t, throttler.TryAcquire("t-1"))

	clock = base.Add(10 * time.Minute)
	assert.True(t, throttler.TryAcquire("t-1"))

	// independent per ticket
	assert.True(t, throttler.TryAcquire("t-2"))
}

func TestThrottlerReleaseReopensWindow(t *testing.T) {
	throttler := NewThrottler(10 * time.Minute)

	assert.True(t, throttler.TryAcquire("t-1"))
	assert.False(t, throttler.TryAcquire("t-1"))

	throttler.Release("t-1")
	assert.True(t, throttler.TryAcquire("t-1"))
}

type responderFixture struct {
	svc        *TicketService
	dispatcher events.Dispatcher
	messages   *memoryMessageRepo
	templates  *memoryTemplateRepo
	settings   *memorySettingsRepo
	throttler  *Throttler
	clock      *time.Time
}

func newResponderFixture(t *testing.T, cooldown time.Duration) *responderFixture {
	t.Helper()

	dispatcher := events.NewInMemoryDispatcher()
	tickets := newMemoryTicketRepo()
	messages := newMemoryMessageRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  tickets,
		MessageRepo: messages,
		Dispatcher:  dispatcher,
	})

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	throttler := NewThrottler(cooldown)
	throttler.now = func() time.Time { return clock }

	templates := newMemoryTemplateRepo()
	settings := &memorySettingsRepo{}
	cfg := config.SupportConfig{
		SLAHours:                 24,
		AutoReplyCooldownMinutes: int(cooldown / time.Minute),
		AutoReplyEnabledDefault:  true,
		AutoReplyTemplateTitle:   "auto_acknowledgement",
		Signature:                "\n--\nSupport Team",
	}
	responder := NewAutoResponder(svc, templates, settings, throttler, cfg, zap.NewNop(), observability.NewMetrics())
	responder.now = func() time.Time { return clock }
	responder.RegisterHandlers(dispatcher)

	return &responderFixture{
		svc:        svc,
		dispatcher: dispatcher,
		messages:   messages,
		templates:  templates,
		settings:   settings,
		throttler:  throttler,
		clock:      &clock,
	}
}

func (f *responderFixture) systemMessages(t *testing.T, ticketID string) []domain.Message {
	t.Helper()
	msgs, err := f.messages.ListByTicket(context.Background(), ticketID)
	require.NoError(t, err)
	var system []domain.Message
	for _, msg := range msgs {
		if msg.AutoGenerated {
			system = append(system, msg)
		}
	}
	return system
}

func TestAutoReplyCooldownSuppressesSecondMessage(t *testing.T) {
	f := newResponderFixture(t, 10*time.Minute)
	ticket, err := f.svc.CreateTicket(context.Background(), merchantActor, "Printer offline", "")
	require.NoError(t, err)

	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "first")
	require.NoError(t, err)
	*f.clock = f.clock.Add(1 * time.Minute)
	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "second")
	require.NoError(t, err)

	assert.Len(t, f.systemMessages(t, ticket.ID), 1)
}

func TestAutoReplyFiresAgainAfterCooldown(t *testing.T) {
	f := newResponderFixture(t, 10*time.Minute)
	ticket, err := f.svc.CreateTicket(context.Background(), merchantActor, "Printer offline", "")
	require.NoError(t, err)

	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "first")
	require.NoError(t, err)
	*f.clock = f.clock.Add(11 * time.Minute)
	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "second")
	require.NoError(t, err)

	assert.Len(t, f.systemMessages(t, ticket.ID), 2)
}

func TestAutoReplyNeverTriggersItself(t *testing.T) {
	// zero cooldown: the throttle always passes, so only the explicit
	// AutoGenerated flag prevents a reply loop
	f := newResponderFixture(t, 0)
	ticket, err := f.svc.CreateTicket(context.Background(), merchantActor, "Printer offline", "")
	require.NoError(t, err)

	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "hello")
	require.NoError(t, err)

	msgs, err := f.messages.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Len(t, f.systemMessages(t, ticket.ID), 1)
}

func TestAutoReplyIgnoresAdminMessages(t *testing.T) {
	f := newResponderFixture(t, 10*time.Minute)
	ticket, err := f.svc.CreateTicket(context.Background(), merchantActor, "Printer offline", "")
	require.NoError(t, err)

	_, err = f.svc.SubmitMessage(context.Background(), adminActor, ticket.ID, "we are on it")
	require.NoError(t, err)

	assert.Empty(t, f.systemMessages(t, ticket.ID))
}

func TestAutoReplyRespectsDisabledFlag(t *testing.T) {
	f := newResponderFixture(t, 10*time.Minute)
	require.NoError(t, f.settings.SetAutoReplyEnabled(context.Background(), false))

	ticket, err := f.svc.CreateTicket(context.Background(), merchantActor, "Printer offline", "")
	require.NoError(t, err)
	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "hello")
	require.NoError(t, err)

	assert.Empty(t, f.systemMessages(t, ticket.ID))
}

func TestAutoReplyFailureDoesNotConsumeCooldown(t *testing.T) {
	f := newResponderFixture(t, 10*time.Minute)

	// a merchant message on a ticket the store does not know makes the
	// system-message write fail after the throttle stamp is taken
	err := f.dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventMessageAdded,
		TicketID: "missing",
		Payload: events.MessageAddedPayload{
			Message: domain.Message{
				ID:       "m-1",
				TicketID: "missing",
				Sender:   domain.SenderRoleMerchant,
				Body:     "hello",
			},
			MerchantName: "Espresso Corner",
		},
	})
	require.NoError(t, err)

	assert.True(t, f.throttler.TryAcquire("missing"))
}

func TestAutoReplyUsesConfiguredTemplate(t *testing.T) {
	f := newResponderFixture(t, 10*time.Minute)
	require.NoError(t, f.templates.Upsert(context.Background(), domain.ReplyTemplate{
		Title: "auto_acknowledgement",
		Body:  "Thanks {merchant_name}, ref {ticket_id}.",
	}))

	ticket, err := f.svc.CreateTicket(context.Background(), merchantActor, "Printer offline", "")
	require.NoError(t, err)
	_, err = f.svc.SubmitMessage(context.Background(), merchantActor, ticket.ID, "hello")
	require.NoError(t, err)

	system := f.systemMessages(t, ticket.ID)
	require.Len(t, system, 1)
	assert.Contains(t, system[0].Body, "Thanks Espresso Corner")
	assert.Contains(t, system[0].Body, ticket.ID[:8])
	assert.Contains(t, system[0].Body, "Support Team")
	assert.Equal(t, domain.SenderRoleSystem, system[0].Sender)
}
