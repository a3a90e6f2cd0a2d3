package domain

// ActorRole differentiates merchant vs admin callers.
type ActorRole string

const (
	ActorRoleMerchant ActorRole = "MERCHANT"
	ActorRoleAdmin    ActorRole = "ADMIN"
)

// Actor is the verified identity behind a connection or request. The
// authentication layer issues it; this engine only consumes it.
type Actor struct {
	ID          string
	Role        ActorRole
	DisplayName string
	// MerchantID scopes merchant actors to their tenant. Empty for admins.
	MerchantID string
}

// SenderRole maps the actor to the role recorded on messages it sends.
func (a Actor) SenderRole() SenderRole {
	if a.Role == ActorRoleAdmin {
		return SenderRoleAdmin
	}
	return SenderRoleMerchant
}

// CanAccessTicket reports whether the actor may read or join the ticket.
// Admins may access any ticket; merchants only their own tenant's.
func (a Actor) CanAccessTicket(ticket *Ticket) bool {
	if a.Role == ActorRoleAdmin {
		return true
	}
	return ticket != nil && a.MerchantID != "" && a.MerchantID == ticket.MerchantID
}
