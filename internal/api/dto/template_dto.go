package dto

// TemplateRequest payload for create/update.
type TemplateRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Body     string `json:"body"`
}

// TemplateResponse mirrors a stored template.
type TemplateResponse struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Body     string `json:"body"`
}

// AutoReplySettingRequest toggles the automated responder.
type AutoReplySettingRequest struct {
	Enabled bool `json:"enabled"`
}
