package translator

import (
	"fmt"

	"iot-scenario-porter/internal/domain/model"
)

type OnOffStrategy struct{}

func (s *OnOffStrategy) Translate(name string, c model.Capability) (string, bool) {
	on, ok := c.State.Value.(bool)
	if !ok {
		return "", false
	}
	if on {
		return fmt.Sprintf("%s: включится", name), true
	}
	return fmt.Sprintf("%s: выключится", name), true
}

type rangeInstance struct {
	label string
	unit  string
}

var rangeInstances = map[string]rangeInstance{
	"brightness":  {"яркость", "%"},
	"temperature": {"температура", "°C"},
	"volume":      {"громкость", ""},
	"channel":     {"канал", ""},
	"humidity":    {"влажность", "%"},
	"open":        {"открытие", "%"},
}

type RangeStrategy struct{}

func (s *RangeStrategy) Translate(name string, c model.Capability) (string, bool) {
	v, ok := number(c.State.Value)
	if !ok {
		return "", false
	}
	inst, known := rangeInstances[c.State.Instance]
	if !known {
		inst = rangeInstance{label: orDash(c.State.Instance)}
	}
	verb := "станет"
	if c.State.Relative {
		verb = "изменится на"
	}
	return fmt.Sprintf("%s: %s %s %s%s", name, inst.label, verb, formatNumber(v), inst.unit), true
}

type ColorStrategy struct{}

func (s *ColorStrategy) Translate(name string, c model.Capability) (string, bool) {
	if c.State.Value == nil {
		return "", false
	}
	return fmt.Sprintf("%s: цвет %s", name, stringify(c.State.Value)), true
}

type TTSStrategy struct{}

func (s *TTSStrategy) Translate(name string, c model.Capability) (string, bool) {
	text, ok := c.State.Value.(string)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s скажет: «%s»", name, text), true
}

type StopEverythingStrategy struct{}

func (s *StopEverythingStrategy) Translate(name string, _ model.Capability) (string, bool) {
	return fmt.Sprintf("%s: остановит всё", name), true
}

type ServerActionStrategy struct{}

func (s *ServerActionStrategy) Translate(name string, c model.Capability) (string, bool) {
	if c.State.Value == nil {
		return "", false
	}
	return fmt.Sprintf("%s выполнит действие: «%s»", name, stringify(c.State.Value)), true
}

// FallbackStrategy renders any capability, known or not.
type FallbackStrategy struct{}

func (s *FallbackStrategy) Translate(name string, c model.Capability) (string, bool) {
	return fmt.Sprintf("%s: %s • %s • %s", name, orDash(c.Type), orDash(c.State.Instance), stringify(c.State.Value)), true
}
