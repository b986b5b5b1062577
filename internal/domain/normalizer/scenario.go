package normalizer

import (
	"iot-scenario-porter/internal/domain/model"

	"github.com/tidwall/gjson"
)

// Scenarios normalizes {scenarios:[...]} or a bare scenario array.
func Scenarios(body []byte) []*model.Scenario {
	root := gjson.ParseBytes(body)
	list := root
	if !root.IsArray() {
		list = root.Get("scenarios")
	}
	out := []*model.Scenario{}
	for _, item := range Objects(list) {
		if s := Scenario(item); s.ID != "" {
			out = append(out, s)
		}
	}
	return out
}

// ScenarioDetails accepts either a bare scenario or {scenario:{...}}.
func ScenarioDetails(body []byte) *model.Scenario {
	return Scenario(unwrap(gjson.ParseBytes(body), "scenario"))
}

func Scenario(item gjson.Result) *model.Scenario {
	id := item.Get("id").String()
	s := &model.Scenario{
		ID:       id,
		Name:     firstNonEmpty(item.Get("name").String(), id),
		Icon:     item.Get("icon").String(),
		IsActive: true,
		Triggers: []model.Trigger{},
		Steps:    []model.Step{},
	}
	if active := item.Get("is_active"); active.Exists() {
		s.IsActive = active.Bool()
	}
	for _, t := range Objects(item.Get("triggers")) {
		s.Triggers = append(s.Triggers, Trigger(t))
	}
	for _, st := range Objects(item.Get("steps")) {
		s.Steps = append(s.Steps, Step(st))
	}
	return s
}

// Trigger accepts both {trigger:{type,value}, filters} and {type,value}.
func Trigger(t gjson.Result) model.Trigger {
	inner := unwrap(t, "trigger")
	return model.Trigger{
		Type:     inner.Get("type").String(),
		Value:    inner.Get("value").Value(),
		DeviceID: first(inner, "device_id", "value.device_id", "value.id").String(),
	}
}

// Step reads the API shape {type, parameters:{...}} as well as the flat
// exported shape {type, delay_ms | items}. Unrecognized step types keep
// their parameters untouched.
func Step(st gjson.Result) model.Step {
	step := model.Step{Type: st.Get("type").String()}
	params := st
	if p := st.Get("parameters"); p.IsObject() {
		params = p
	}
	switch step.Kind() {
	case model.StepDelay:
		step.DelayMs = first(params, "delay_ms", "delayMs").Int()
	case model.StepActions:
		step.Items = []model.ActionItem{}
		for _, it := range Objects(params.Get("items")) {
			step.Items = append(step.Items, ActionItem(it))
		}
	default:
		step.Parameters = st.Get("parameters").Value()
	}
	return step
}

func ActionItem(it gjson.Result) model.ActionItem {
	item := model.ActionItem{
		ID:   it.Get("id").String(),
		Type: it.Get("type").String(),
		Name: it.Get("name").String(),
	}
	v := it.Get("value")
	if !v.IsObject() {
		item.Value = model.ActionValue{ID: v.String(), Capabilities: []model.Capability{}}
	} else {
		item.Value = model.ActionValue{
			ID:           v.Get("id").String(),
			Name:         v.Get("name").String(),
			Type:         v.Get("type").String(),
			ItemType:     model.ItemType(first(v, "item_type", "itemType").String()),
			Capabilities: Capabilities(v.Get("capabilities")),
		}
		if active := v.Get("is_active"); active.Exists() {
			flag := active.Bool()
			item.Value.IsActive = &flag
		}
	}
	if item.ID == "" {
		item.ID = item.Value.ID
	}
	return item
}
