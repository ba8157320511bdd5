package types

import "time"

// Message roles stored in a session's chat history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChartMeta is the chart metadata attached to an assistant message after a
// successful render. Style-change follow-ups reuse the most recent one.
type ChartMeta struct {
	ChartID   string    `json:"chart_id,omitempty"`
	ChartType ChartType `json:"chart_type,omitempty"`
	XLabels   []string  `json:"x_labels,omitempty"`
	YValues   []float64 `json:"y_values,omitempty"`
	Title     string    `json:"title,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// Message is one turn in a session's conversation history.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Meta      *ChartMeta `json:"metadata,omitempty"`
}

// Session holds per-session state: the manual style preference and the
// conversation history used for follow-up resolution.
type Session struct {
	ID        string      `json:"session_id"`
	Style     ColorScheme `json:"style"`
	CreatedAt time.Time   `json:"created_at"`
	LastUsed  time.Time   `json:"last_used"`
	History   []Message   `json:"chat_history"`
}

// LastChartMeta returns the most recent chart metadata in the history, or nil
// when no chart has been produced in this session.
func (s *Session) LastChartMeta() *ChartMeta {
	for i := len(s.History) - 1; i >= 0; i-- {
		msg := s.History[i]
		if msg.Role == RoleAssistant && msg.Meta != nil && len(msg.Meta.XLabels) > 0 {
			return msg.Meta
		}
	}
	return nil
}
