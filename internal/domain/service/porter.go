// Package service is the workflow controller front ends drive. A Service
// is one session: it owns the device-name lookup, the last fetched
// snapshot and the import engine.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"iot-scenario-porter/internal/domain/batch"
	"iot-scenario-porter/internal/domain/codec"
	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/domain/translator"
	"iot-scenario-porter/internal/logger"
	"iot-scenario-porter/internal/ports"

	"github.com/samber/lo"
)

type Service struct {
	remote     ports.RemoteServicePort
	configRepo ports.ConfigRepository
	docs       ports.DocumentRepository
	log        logger.Logger
	now        func() time.Time

	lookup *NameLookup
	engine *batch.Engine

	mu       sync.RWMutex
	snapshot *model.Snapshot
}

var _ ports.PorterPort = (*Service)(nil)

func NewService(remote ports.RemoteServicePort, configRepo ports.ConfigRepository, docs ports.DocumentRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewDiscard()
	}
	s := &Service{
		remote:     remote,
		configRepo: configRepo,
		docs:       docs,
		log:        log,
		now:        time.Now,
		engine:     batch.NewEngine(remote, log.With("component", "import")),
	}
	s.lookup = NewNameLookup(s.fetchNames)
	return s
}

func (s *Service) fetchNames(ctx context.Context) (map[string]string, error) {
	if !s.remote.IsConfigured() {
		return nil, model.ErrNotConfigured
	}
	inv, err := s.remote.FetchDevices(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("device names loaded", "devices", len(inv.Devices), "groups", len(inv.Groups))
	return inv.Names(), nil
}

// Fetch loads scenarios and devices and replaces the session snapshot.
func (s *Service) Fetch(ctx context.Context) (*model.FetchReport, error) {
	if !s.remote.IsConfigured() {
		return nil, model.ErrNotConfigured
	}
	start := s.now()

	scenarios, err := s.remote.FetchScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch scenarios: %w", err)
	}
	inv, err := s.remote.FetchDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch devices: %w", err)
	}

	snap := model.NewSnapshot()
	for _, d := range inv.Devices {
		snap.AddDevice(d)
	}
	snap.Groups = append(snap.Groups, inv.Groups...)
	snap.Scenarios = append(snap.Scenarios, scenarios...)

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
	s.lookup.Seed(snap.Names())

	report := &model.FetchReport{Snapshot: snap, StartedAt: start, Duration: s.now().Sub(start)}
	s.log.Info("home fetched",
		"scenarios", len(snap.Scenarios),
		"active", lo.CountBy(snap.Scenarios, func(sc *model.Scenario) bool { return sc.IsActive }),
		"devices", len(snap.Devices),
		"groups", len(snap.Groups),
		"took", report.Duration)
	return report, nil
}

func (s *Service) Snapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Export encodes the last snapshot and stores it under name, or under the
// configured export path when name is empty.
func (s *Service) Export(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap == nil || snap.Empty() {
		return nil, model.ErrNoSnapshot
	}
	data, err := codec.Export(snap)
	if err != nil {
		return nil, err
	}
	if s.docs == nil {
		return data, nil
	}
	if name == "" {
		cfg, err := s.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		name = cfg.ExportPath
	}
	if err := s.docs.Write(ctx, name, data); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	s.log.Info("snapshot exported", "file", name, "bytes", len(data))
	return data, nil
}

// LoadImport decodes an export document. When data is nil the document is
// read from the document repository.
func (s *Service) LoadImport(ctx context.Context, fileName string, data []byte) (*model.ImportBatch, error) {
	if data == nil {
		if s.docs == nil {
			return nil, fmt.Errorf("%w: no document store", model.ErrNotConfigured)
		}
		var err error
		data, err = s.docs.Read(ctx, fileName)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fileName, err)
		}
	}
	return s.engine.Load(fileName, data)
}

func (s *Service) SetSelected(category model.Category, id string, selected bool) error {
	return s.engine.SetSelected(category, id, selected)
}

// SelectAt toggles the item at the zero-based index of category.
func (s *Service) SelectAt(category model.Category, index int, selected bool) error {
	return s.engine.SelectAt(category, index, selected)
}

func (s *Service) SelectAll(selected bool) error {
	return s.engine.SelectAll(selected)
}

func (s *Service) RunImport(ctx context.Context) (*model.ImportReport, error) {
	if !s.remote.IsConfigured() {
		return nil, model.ErrNotConfigured
	}
	return s.engine.Run(ctx)
}

// Describe renders a scenario. A failed name lookup degrades to raw ids.
func (s *Service) Describe(ctx context.Context, scenario *model.Scenario) (*model.Description, error) {
	if scenario == nil {
		return nil, fmt.Errorf("%w: scenario", model.ErrNotFound)
	}
	names, err := s.lookup.Names(ctx)
	if err != nil {
		s.log.Warn("device names unavailable", "err", err)
	}
	return translator.NewRenderer(names).Describe(scenario), nil
}

func (s *Service) ScenarioDetails(ctx context.Context, id string) (*model.Scenario, error) {
	if !s.remote.IsConfigured() {
		return nil, model.ErrNotConfigured
	}
	return s.remote.FetchScenarioDetails(ctx, id)
}

// GroupDetails fetches a group with its member devices and attaches the
// members to the snapshot copy of the group.
func (s *Service) GroupDetails(ctx context.Context, id string) (*model.Group, error) {
	if !s.remote.IsConfigured() {
		return nil, model.ErrNotConfigured
	}
	g, err := s.remote.FetchGroupDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		if known, ok := s.snapshot.Group(id); ok {
			known.Devices = g.Devices
		}
	}
	return g, nil
}

func (s *Service) DeleteScenario(ctx context.Context, id string) error {
	if !s.remote.IsConfigured() {
		return model.ErrNotConfigured
	}
	if err := s.remote.DeleteScenario(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		s.snapshot.Scenarios = lo.Reject(s.snapshot.Scenarios, func(sc *model.Scenario, _ int) bool {
			return sc.ID == id
		})
	}
	s.log.Info("scenario deleted", "id", id)
	return nil
}

func (s *Service) ToggleScenarioActivation(ctx context.Context, id string, active bool) error {
	if !s.remote.IsConfigured() {
		return model.ErrNotConfigured
	}
	if err := s.remote.ToggleScenarioActivation(ctx, id, active); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		if sc, ok := s.snapshot.Scenario(id); ok {
			sc.IsActive = active
		}
	}
	return nil
}

// ToggleEntityState switches a device or group on or off. Ids of known
// groups are sent as groups, everything else as a device.
func (s *Service) ToggleEntityState(ctx context.Context, id string, on bool) error {
	if !s.remote.IsConfigured() {
		return model.ErrNotConfigured
	}
	itemType := model.ItemTypeDevice
	s.mu.RLock()
	var group *model.Group
	var device *model.Device
	if s.snapshot != nil {
		if g, ok := s.snapshot.Group(id); ok {
			group, itemType = g, model.ItemTypeGroup
		} else {
			device = s.snapshot.DeviceIndex[id]
		}
	}
	s.mu.RUnlock()

	if err := s.remote.ToggleEntityState(ctx, id, itemType, on); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case group != nil:
		setOnOff(group.Capabilities, on)
	case device != nil:
		setOnOff(device.Capabilities, on)
	}
	return nil
}

func setOnOff(caps []model.Capability, on bool) {
	for i := range caps {
		if caps[i].Kind() == model.CapabilityOnOff {
			caps[i].State.Value = on
		}
	}
}

func (s *Service) GetConfig(ctx context.Context) (*model.Config, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (s *Service) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	cfg.ApplyDefaults()
	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return err
	}
	s.remote.Configure(cfg)
	return nil
}
