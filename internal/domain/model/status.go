package model

type Status string

const (
	StatusNone    Status = "—"
	StatusSuccess Status = "✅"
	StatusFailure Status = "❌"
)

// Glyphs shown for results that belong to an earlier import run.
const (
	historicalSuccess = "✔"
	historicalFailure = "✖"
)

// ImportState is the per-entity bookkeeping of the import workflow.
// Error is set only together with StatusFailure.
type ImportState struct {
	Status      Status `json:"status,omitempty" yaml:"status,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	LastAttempt bool   `json:"lastAttempt,omitempty" yaml:"lastAttempt,omitempty"`
	Selected    bool   `json:"-" yaml:"-"`
}

func (s *ImportState) State() *ImportState {
	return s
}

// Reset puts the entity back into the freshly loaded state.
func (s *ImportState) Reset() {
	s.Status = StatusNone
	s.Error = ""
	s.LastAttempt = false
	s.Selected = true
}

func (s *ImportState) MarkSuccess() {
	s.Status = StatusSuccess
	s.Error = ""
	s.LastAttempt = true
}

func (s *ImportState) MarkFailure(msg string) {
	s.Status = StatusFailure
	s.Error = msg
	s.LastAttempt = true
}

// DisplayStatus renders the attempt glyph for the latest run and the
// historical glyph for anything older.
func (s *ImportState) DisplayStatus() string {
	if s.Status == "" {
		return string(StatusNone)
	}
	if s.LastAttempt {
		return string(s.Status)
	}
	switch s.Status {
	case StatusSuccess:
		return historicalSuccess
	case StatusFailure:
		return historicalFailure
	default:
		return string(s.Status)
	}
}

// Importable is implemented by every entity category the batch engine walks.
type Importable interface {
	EntityID() string
	DisplayName() string
	State() *ImportState
}
