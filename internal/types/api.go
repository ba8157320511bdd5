package types

import "github.com/go-playground/validator/v10"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,min=1"`
	SessionID string `json:"session_id" validate:"required,min=1"`
}

// ChatResponse is returned by both the chat and upload endpoints. ChartURL
// and SVGURL are set only when a chart was rendered.
type ChatResponse struct {
	Response    string      `json:"response"`
	ChartID     string      `json:"chart_id,omitempty"`
	ChartURL    string      `json:"chart_url,omitempty"`
	SVGURL      string      `json:"svg_url,omitempty"`
	ColorScheme ColorScheme `json:"color_scheme,omitempty"`
}

// StylePreference is the body of POST /api/preferences/{session_id}.
type StylePreference struct {
	Style ColorScheme `json:"style" validate:"required,oneof=fd bnr"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the StylePreference using the validator.
func (p *StylePreference) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
