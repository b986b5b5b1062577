package translator

import (
	"iot-scenario-porter/internal/domain/model"
)

type Factory struct {
	strategies map[model.CapabilityKind]Translator
	fallback   Translator
}

func NewFactory() *Factory {
	return &Factory{
		strategies: map[model.CapabilityKind]Translator{
			model.CapabilityOnOff:          &OnOffStrategy{},
			model.CapabilityRange:          &RangeStrategy{},
			model.CapabilityColorSetting:   &ColorStrategy{},
			model.CapabilityTTS:            &TTSStrategy{},
			model.CapabilityStopEverything: &StopEverythingStrategy{},
			model.CapabilityServerAction:   &ServerActionStrategy{},
		},
		fallback: &FallbackStrategy{},
	}
}

func (f *Factory) GetTranslator(kind model.CapabilityKind) Translator {
	if t, ok := f.strategies[kind]; ok {
		return t
	}
	return f.fallback
}

// Translate always yields a line: strategies that reject the state hand
// over to the fallback.
func (f *Factory) Translate(name string, c model.Capability) string {
	if line, ok := f.GetTranslator(c.Kind()).Translate(name, c); ok {
		return line
	}
	line, _ := f.fallback.Translate(name, c)
	return line
}
