package model

import "strings"

type StepKind int

const (
	StepUnknown StepKind = iota
	StepDelay
	StepActions
)

const (
	StepTypeDelay   = "scenarios.steps.delay"
	StepTypeActions = "scenarios.steps.actions.v2"

	ActionItemDevice   = "step.action.item.device"
	ActionItemGroup    = "step.action.item.group"
	ActionItemScenario = "step.action.item.scenario"
)

type Trigger struct {
	Type     string `json:"type" yaml:"type"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
	DeviceID string `json:"device_id,omitempty" yaml:"device_id,omitempty"`
}

// ResolvedDeviceID looks for a device reference in device_id, then
// value.device_id, then value.id.
func (t Trigger) ResolvedDeviceID() string {
	if t.DeviceID != "" {
		return t.DeviceID
	}
	v, ok := t.Value.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"device_id", "id"} {
		if id, ok := v[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

type ActionValue struct {
	ID           string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Type         string       `json:"type,omitempty" yaml:"type,omitempty"`
	ItemType     ItemType     `json:"item_type,omitempty" yaml:"item_type,omitempty"`
	Capabilities []Capability `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	IsActive     *bool        `json:"is_active,omitempty" yaml:"is_active,omitempty"`
}

type ActionItem struct {
	ID    string      `json:"id" yaml:"id"`
	Type  string      `json:"type" yaml:"type"`
	Name  string      `json:"name,omitempty" yaml:"name,omitempty"`
	Value ActionValue `json:"value" yaml:"value"`
}

// IsScenarioReference reports whether the item enables or disables another
// scenario rather than driving a device.
func (a ActionItem) IsScenarioReference() bool {
	return a.Type == ActionItemScenario || a.Value.ItemType == ItemTypeScenario
}

type Step struct {
	Type       string       `json:"type" yaml:"type"`
	DelayMs    int64        `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`
	Items      []ActionItem `json:"items,omitempty" yaml:"items,omitempty"`
	Parameters any          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func (s Step) Kind() StepKind {
	return StepKindOf(s.Type)
}

func StepKindOf(stepType string) StepKind {
	switch {
	case strings.Contains(stepType, "delay"):
		return StepDelay
	case strings.Contains(stepType, "actions"):
		return StepActions
	default:
		return StepUnknown
	}
}

type Scenario struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Icon        string    `json:"icon" yaml:"icon"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
	Triggers    []Trigger `json:"triggers" yaml:"triggers"`
	Steps       []Step    `json:"steps" yaml:"steps"`
	ImportState `yaml:",inline"`
}

func (s *Scenario) EntityID() string    { return s.ID }
func (s *Scenario) DisplayName() string { return displayName(s.Name, s.ID) }

// Description is the readable form of a scenario.
type Description struct {
	Triggers []string
	Steps    []string
}
