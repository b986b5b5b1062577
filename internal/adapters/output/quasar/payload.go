package quasar

import "iot-scenario-porter/internal/domain/model"

const (
	defaultScenarioName = "Imported Scenario"
	defaultScenarioIcon = "home"
	defaultVoicePhrase  = "Тест"
	voiceTrigger        = "scenario.trigger.voice"
)

type actionsRequest struct {
	Actions []model.Capability `json:"actions"`
}

type createRequest struct {
	Name     string           `json:"name"`
	Icon     string           `json:"icon"`
	Triggers []triggerPayload `json:"triggers"`
	Steps    []stepPayload    `json:"steps"`
	Settings scenarioSettings `json:"settings"`
}

type triggerPayload struct {
	Trigger triggerBody `json:"trigger"`
	Filters []any       `json:"filters"`
}

type triggerBody struct {
	Type   string `json:"type"`
	Value  any    `json:"value"`
	SlotID string `json:"slotId"`
}

type stepPayload struct {
	Type       string `json:"type"`
	Parameters any    `json:"parameters"`
}

type delayParameters struct {
	DelayMs int64 `json:"delay_ms"`
}

type actionParameters struct {
	Items []model.ActionItem `json:"items"`
}

type scenarioSettings struct {
	ContinueExecutionAfterError bool `json:"continue_execution_after_error"`
}

func newCreateRequest(s *model.Scenario) createRequest {
	req := createRequest{
		Name:     s.Name,
		Icon:     s.Icon,
		Triggers: make([]triggerPayload, 0, len(s.Triggers)),
		Steps:    make([]stepPayload, 0, len(s.Steps)),
	}
	if req.Name == "" {
		req.Name = defaultScenarioName
	}
	if req.Icon == "" {
		req.Icon = defaultScenarioIcon
	}
	for _, t := range s.Triggers {
		req.Triggers = append(req.Triggers, newTrigger(t.Type, t.Value))
	}
	if len(req.Triggers) == 0 {
		req.Triggers = append(req.Triggers, newTrigger(voiceTrigger, defaultVoicePhrase))
	}
	for _, st := range s.Steps {
		req.Steps = append(req.Steps, newStep(st))
	}
	return req
}

func newTrigger(typ string, value any) triggerPayload {
	return triggerPayload{
		Trigger: triggerBody{Type: typ, Value: value, SlotID: typ},
		Filters: []any{},
	}
}

func newStep(st model.Step) stepPayload {
	switch st.Kind() {
	case model.StepDelay:
		return stepPayload{Type: st.Type, Parameters: delayParameters{DelayMs: st.DelayMs}}
	case model.StepActions:
		items := st.Items
		if items == nil {
			items = []model.ActionItem{}
		}
		return stepPayload{Type: st.Type, Parameters: actionParameters{Items: items}}
	default:
		return stepPayload{Type: st.Type, Parameters: st.Parameters}
	}
}
