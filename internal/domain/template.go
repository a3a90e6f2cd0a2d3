package domain

// ReplyTemplate is a canned response owned by the admin tenant
// configuration store. Bodies may contain {merchant_name}, {ticket_id}
// and {date} placeholders.
type ReplyTemplate struct {
	Title    string
	Category string
	Body     string
}
