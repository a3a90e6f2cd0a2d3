package service

import (
	"strings"
	"time"
)

// RenderContext supplies the values substituted into a template body.
type RenderContext struct {
	MerchantName string
	TicketID     string
	Now          time.Time
	Signature    string
}

// RenderTemplate replaces the first occurrence of each supported
// placeholder and appends the signature block. Unmatched placeholders
// are left verbatim: a template typo must never fail a reply.
func RenderTemplate(body string, ctx RenderContext) string {
	out := strings.Replace(body, "{merchant_name}", ctx.MerchantName, 1)
	out = strings.Replace(out, "{ticket_id}", shortTicketID(ctx.TicketID), 1)
	out = strings.Replace(out, "{date}", ctx.Now.Format("Jan 2, 2006 3:04 PM"), 1)
	return out + ctx.Signature
}

func shortTicketID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
