// Package batch runs the selective import of a decoded export document.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"iot-scenario-porter/internal/domain/codec"
	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/logger"
	"iot-scenario-porter/internal/ports"

	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	Loaded
	Executing
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Executing:
		return "executing"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const timeoutMessage = "Превышено время ожидания ответа"

// Engine walks scenarios, devices and groups in that order, one item at a
// time. Only scenarios are sent to the remote service; devices and groups
// always fail with UnsupportedImportError.
type Engine struct {
	creator ports.ScenarioCreator
	log     logger.Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
	batch *model.ImportBatch
}

func NewEngine(creator ports.ScenarioCreator, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Engine{creator: creator, log: log, now: time.Now}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Batch() *model.ImportBatch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.batch
}

// Load decodes data and replaces the current batch. A parse error leaves
// the engine exactly as it was.
func (e *Engine) Load(fileName string, data []byte) (*model.ImportBatch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Executing {
		return nil, fmt.Errorf("%w: cannot load while %s", model.ErrInvalidState, e.state)
	}
	b, err := codec.Import(fileName, data)
	if err != nil {
		return nil, err
	}
	e.batch = b
	e.state = Loaded
	e.log.Info("import document loaded", "file", fileName,
		"scenarios", len(b.Scenarios), "devices", len(b.Devices), "groups", len(b.Groups))
	return b, nil
}

// SetSelected toggles every item of category c whose id is id.
func (e *Engine) SetSelected(c model.Category, id string, selected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.selectable(); err != nil {
		return err
	}
	found := false
	for _, it := range e.batch.Items(c) {
		if it.EntityID() == id {
			it.State().Selected = selected
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s %q", model.ErrNotFound, c, id)
	}
	return nil
}

// SelectAt toggles the item at index of category c.
func (e *Engine) SelectAt(c model.Category, index int, selected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.selectable(); err != nil {
		return err
	}
	items := e.batch.Items(c)
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %s #%d", model.ErrNotFound, c, index)
	}
	items[index].State().Selected = selected
	return nil
}

func (e *Engine) SelectAll(selected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.selectable(); err != nil {
		return err
	}
	for _, c := range model.Categories {
		for _, it := range e.batch.Items(c) {
			it.State().Selected = selected
		}
	}
	return nil
}

func (e *Engine) selectable() error {
	if e.state != Loaded && e.state != Completed {
		return fmt.Errorf("%w: selection is not possible while %s", model.ErrInvalidState, e.state)
	}
	return nil
}

// Run imports the selected items sequentially. A failing item never stops
// the run. Running again after completion re-attempts the current
// selection; unselected items keep their earlier status.
func (e *Engine) Run(ctx context.Context) (*model.ImportReport, error) {
	e.mu.Lock()
	if e.state != Loaded && e.state != Completed {
		st := e.state
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot run while %s", model.ErrInvalidState, st)
	}
	e.state = Executing
	b := e.batch
	e.mu.Unlock()

	runID := uuid.NewString()
	log := e.log.With("run", runID, "file", b.FileName)
	start := e.now()

	for _, c := range model.Categories {
		items := b.Items(c)
		if len(items) == 0 {
			continue
		}
		attempted, failed := 0, 0
		for _, it := range items {
			st := it.State()
			if !st.Selected {
				st.LastAttempt = false
				continue
			}
			attempted++
			st.LastAttempt = true
			if err := e.attempt(ctx, c, it); err != nil {
				failed++
				st.MarkFailure(failureMessage(err))
				log.Warn("import item failed", "category", c, "id", it.EntityID(), "err", err)
				continue
			}
			st.MarkSuccess()
		}
		log.Info("category imported", "category", c, "total", len(items), "attempted", attempted, "failed", failed)
	}

	report := &model.ImportReport{
		RunID:     runID,
		FileName:  b.FileName,
		StartedAt: start,
		Duration:  e.now().Sub(start),
		Scenarios: b.Scenarios,
		Devices:   b.Devices,
		Groups:    b.Groups,
	}

	e.mu.Lock()
	e.state = Completed
	e.mu.Unlock()
	return report, nil
}

func (e *Engine) attempt(ctx context.Context, c model.Category, it model.Importable) error {
	if c != model.CategoryScenarios {
		return &model.UnsupportedImportError{Category: c}
	}
	s, ok := it.(*model.Scenario)
	if !ok {
		return fmt.Errorf("unexpected %T in scenarios", it)
	}
	return e.creator.CreateScenario(ctx, s)
}

func failureMessage(err error) string {
	var unsupported *model.UnsupportedImportError
	var request *model.RequestError
	switch {
	case errors.As(err, &unsupported):
		return unsupported.Error()
	case errors.As(err, &request):
		return request.Message
	case errors.Is(err, model.ErrTimeout):
		return timeoutMessage
	default:
		return err.Error()
	}
}
