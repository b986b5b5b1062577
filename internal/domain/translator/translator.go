package translator

import (
	"iot-scenario-porter/internal/domain/model"
)

// Translator phrases one capability of a named target. ok is false when
// the capability's state does not fit the strategy, in which case the
// caller falls back to the generic line.
type Translator interface {
	Translate(name string, c model.Capability) (line string, ok bool)
}
