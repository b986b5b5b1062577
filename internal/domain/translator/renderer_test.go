package translator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"iot-scenario-porter/internal/domain/model"
)

func TestFormatDelay(t *testing.T) {
	cases := map[int64]string{
		120000: "2 мин.",
		60000:  "1 мин.",
		90000:  "90 сек.",
		5000:   "5 сек.",
		1500:   "1500 мс.",
		999:    "999 мс.",
		0:      "0 мс.",
	}
	for ms, want := range cases {
		assert.Equal(t, want, FormatDelay(ms), "%d", ms)
	}
}

func TestFormatDelay_ExactDivisibility(t *testing.T) {
	for ms := int64(0); ms <= 300000; ms += 250 {
		got := FormatDelay(ms)
		switch {
		case ms >= 60000 && ms%60000 == 0:
			assert.Equal(t, fmt.Sprintf("%d мин.", ms/60000), got)
		case ms >= 1000 && ms%1000 == 0:
			assert.Equal(t, fmt.Sprintf("%d сек.", ms/1000), got)
		default:
			assert.Equal(t, fmt.Sprintf("%d мс.", ms), got)
		}
	}
}

func TestRenderTriggers(t *testing.T) {
	r := NewRenderer(map[string]string{"d1": "Датчик движения"})

	assert.Equal(t, []string{"Нет триггеров"}, r.RenderTriggers(nil))
	assert.Equal(t, []string{"Нет триггеров"}, r.RenderTriggers([]model.Trigger{}))

	lines := r.RenderTriggers([]model.Trigger{
		{Type: "scenario.trigger.voice", Value: "Доброе утро"},
		{Type: "scenario.trigger.property", Value: map[string]any{"device_id": "d1", "instance": "motion"}},
		{Type: "scenario.trigger.property", DeviceID: "d2"},
		{Type: "scenario.trigger.timetable", Value: map[string]any{"time_offset": 3600.0}},
		{Type: "custom"},
	})
	assert.Equal(t, []string{
		"Фраза: Доброе утро",
		"Датчик: Датчик движения",
		"Датчик: d2",
		`Расписание: {"time_offset":3600}`,
		"custom",
	}, lines)
}

func TestRenderSteps_Placeholders(t *testing.T) {
	r := NewRenderer(nil)

	assert.Equal(t, []string{"Нет шагов"}, r.RenderSteps(nil))
	assert.Equal(t, []string{"Шаг без устройств."}, r.RenderSteps([]model.Step{{Type: model.StepTypeActions, Items: []model.ActionItem{}}}))
	assert.Equal(t, []string{"Нераспознанный шаг: scenarios.steps.magic"}, r.RenderSteps([]model.Step{{Type: "scenarios.steps.magic"}}))
}

func TestRenderSteps_Order(t *testing.T) {
	r := NewRenderer(map[string]string{"d2": "Розетка"})
	active := true

	lines := r.RenderSteps([]model.Step{
		{Type: model.StepTypeActions, Items: []model.ActionItem{
			{ID: "d1", Value: model.ActionValue{Name: "Лампа", Capabilities: []model.Capability{
				capability("devices.capabilities.on_off", "on", true),
				capability("devices.capabilities.range", "brightness", 50.0),
			}}},
		}},
		{Type: model.StepTypeDelay, DelayMs: 120000},
		{Type: model.StepTypeActions, Items: []model.ActionItem{
			{ID: "d2", Value: model.ActionValue{Capabilities: []model.Capability{capability("devices.capabilities.on_off", "on", false)}}},
			{ID: "s1", Type: model.ActionItemScenario, Value: model.ActionValue{Name: "Ночь", IsActive: &active}},
			{ID: "s2", Value: model.ActionValue{Name: "Утро", ItemType: model.ItemTypeScenario}},
		}},
	})

	assert.Equal(t, []string{
		"Лампа: включится",
		"Лампа: яркость станет 50%",
		"Задержка 2 мин.",
		"Розетка: выключится",
		"Включит сценарий «Ночь»",
		"Выключит сценарий «Утро»",
	}, lines)
}

func TestRenderSteps_NameResolution(t *testing.T) {
	r := NewRenderer(map[string]string{"d1": "Из справочника", allSpeakersID: "Не должно использоваться"})
	on := []model.Capability{capability("devices.capabilities.on_off", "on", true)}

	cases := []struct {
		item model.ActionItem
		want string
	}{
		{model.ActionItem{ID: "d1", Name: "Элемент", Value: model.ActionValue{Name: "Значение", Capabilities: on}}, "Значение"},
		{model.ActionItem{ID: "d1", Name: "Элемент", Value: model.ActionValue{Capabilities: on}}, "Элемент"},
		{model.ActionItem{ID: "d1", Value: model.ActionValue{Capabilities: on}}, "Из справочника"},
		{model.ActionItem{ID: "zz", Value: model.ActionValue{Capabilities: on}}, "zz"},
		{model.ActionItem{ID: allSpeakersID, Value: model.ActionValue{Name: "Колонки", Capabilities: on}}, "Все колонки в доме"},
	}
	for _, tc := range cases {
		lines := r.RenderSteps([]model.Step{{Type: model.StepTypeActions, Items: []model.ActionItem{tc.item}}})
		require.Len(t, lines, 1)
		assert.Equal(t, tc.want+": включится", lines[0])
	}
}

func TestRenderSteps_NeverDropsCapabilities(t *testing.T) {
	r := NewRenderer(nil)
	caps := []model.Capability{
		capability("devices.capabilities.on_off", "on", nil),
		capability("devices.capabilities.mode", "program", "eco"),
		capability("devices.capabilities.toggle", "mute", true),
		capability("devices.capabilities.quasar", "weather", nil),
		capability("", "", nil),
		capability("devices.capabilities.range", "brightness", map[string]any{}),
	}
	lines := r.RenderSteps([]model.Step{{Type: model.StepTypeActions, Items: []model.ActionItem{
		{ID: "x", Value: model.ActionValue{Capabilities: caps}},
	}}})

	assert.GreaterOrEqual(t, len(lines), len(caps))
	for _, l := range lines {
		assert.Contains(t, l, "•")
	}
}

func TestDescribe(t *testing.T) {
	d := NewRenderer(nil).Describe(&model.Scenario{ID: "s"})
	assert.Equal(t, []string{"Нет триггеров"}, d.Triggers)
	assert.Equal(t, []string{"Нет шагов"}, d.Steps)
}
