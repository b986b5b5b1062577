package translator

import (
	"fmt"

	"iot-scenario-porter/internal/domain/model"
)

const (
	noTriggers     = "Нет триггеров"
	noSteps        = "Нет шагов"
	noDevices      = "Шаг без устройств."
	msPerSecond    = 1000
	msPerMinute    = 60 * msPerSecond
	allSpeakersID  = "ALL_SPEAKERS_IN_HOUSEHOLD"
	thisSpeakerID  = "CURRENT_SPEAKER"
	defaultTrigger = "Триггер"
)

// Synthetic targets that never resolve through the device list.
var virtualAliases = map[string]string{
	allSpeakersID: "Все колонки в доме",
	thisSpeakerID: "Колонка, которой дана команда",
}

var triggerLabels = map[string]string{
	"scenario.trigger.voice":      "Фраза",
	"scenario.trigger.timetable":  "Расписание",
	"scenario.trigger.timer":      "Таймер",
	"scenario.trigger.property":   "Датчик",
	"scenario.trigger.capability": "Состояние устройства",
	"scenario.trigger.button":     "Кнопка",
}

// Renderer turns triggers and steps into ordered description lines.
// names maps device and group ids to display names and is never written.
type Renderer struct {
	factory *Factory
	names   map[string]string
}

func NewRenderer(names map[string]string) *Renderer {
	if names == nil {
		names = map[string]string{}
	}
	return &Renderer{factory: NewFactory(), names: names}
}

func (r *Renderer) Describe(s *model.Scenario) *model.Description {
	return &model.Description{
		Triggers: r.RenderTriggers(s.Triggers),
		Steps:    r.RenderSteps(s.Steps),
	}
}

func (r *Renderer) RenderTriggers(triggers []model.Trigger) []string {
	if len(triggers) == 0 {
		return []string{noTriggers}
	}
	lines := make([]string, 0, len(triggers))
	for _, t := range triggers {
		lines = append(lines, r.renderTrigger(t))
	}
	return lines
}

func (r *Renderer) renderTrigger(t model.Trigger) string {
	label, ok := triggerLabels[t.Type]
	if !ok {
		label = t.Type
	}
	if label == "" {
		label = defaultTrigger
	}
	if id := t.ResolvedDeviceID(); id != "" {
		return fmt.Sprintf("%s: %s", label, r.lookup(id))
	}
	if t.Value == nil {
		return label
	}
	return fmt.Sprintf("%s: %s", label, stringify(t.Value))
}

func (r *Renderer) RenderSteps(steps []model.Step) []string {
	if len(steps) == 0 {
		return []string{noSteps}
	}
	var lines []string
	for _, st := range steps {
		switch st.Kind() {
		case model.StepDelay:
			lines = append(lines, "Задержка "+FormatDelay(st.DelayMs))
		case model.StepActions:
			lines = append(lines, r.renderActions(st.Items)...)
		default:
			lines = append(lines, fmt.Sprintf("Нераспознанный шаг: %s", orDash(st.Type)))
		}
	}
	return lines
}

func (r *Renderer) renderActions(items []model.ActionItem) []string {
	if len(items) == 0 {
		return []string{noDevices}
	}
	var lines []string
	for _, it := range items {
		name := r.itemName(it)
		if it.IsScenarioReference() {
			lines = append(lines, scenarioToggle(name, it.Value.IsActive))
			continue
		}
		if len(it.Value.Capabilities) == 0 {
			lines = append(lines, fmt.Sprintf("%s: без действий", name))
			continue
		}
		for _, c := range it.Value.Capabilities {
			lines = append(lines, r.factory.Translate(name, c))
		}
	}
	return lines
}

func scenarioToggle(name string, active *bool) string {
	if active != nil && *active {
		return fmt.Sprintf("Включит сценарий «%s»", name)
	}
	return fmt.Sprintf("Выключит сценарий «%s»", name)
}

// itemName resolves by value.name, item name, device lookup, raw id, in
// that order. Virtual aliases win over all of them.
func (r *Renderer) itemName(it model.ActionItem) string {
	for _, id := range []string{it.ID, it.Value.ID} {
		if alias, ok := virtualAliases[id]; ok {
			return alias
		}
	}
	if it.Value.Name != "" {
		return it.Value.Name
	}
	if it.Name != "" {
		return it.Name
	}
	id := it.ID
	if id == "" {
		id = it.Value.ID
	}
	return r.lookup(id)
}

func (r *Renderer) lookup(id string) string {
	if alias, ok := virtualAliases[id]; ok {
		return alias
	}
	if name, ok := r.names[id]; ok && name != "" {
		return name
	}
	return orDash(id)
}

// FormatDelay promotes ms to the largest unit that divides it exactly.
func FormatDelay(ms int64) string {
	switch {
	case ms >= msPerMinute && ms%msPerMinute == 0:
		return fmt.Sprintf("%d мин.", ms/msPerMinute)
	case ms >= msPerSecond && ms%msPerSecond == 0:
		return fmt.Sprintf("%d сек.", ms/msPerSecond)
	default:
		return fmt.Sprintf("%d мс.", ms)
	}
}
