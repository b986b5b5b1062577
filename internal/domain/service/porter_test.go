package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"iot-scenario-porter/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRemotePort struct {
	mock.Mock
}

func (m *MockRemotePort) FetchScenarios(ctx context.Context) ([]*model.Scenario, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.Scenario), args.Error(1)
}

func (m *MockRemotePort) FetchDevices(ctx context.Context) (*model.Inventory, error) {
	args := m.Called(ctx)
	inv, _ := args.Get(0).(*model.Inventory)
	return inv, args.Error(1)
}

func (m *MockRemotePort) FetchGroupDetails(ctx context.Context, id string) (*model.Group, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*model.Group)
	return g, args.Error(1)
}

func (m *MockRemotePort) FetchScenarioDetails(ctx context.Context, id string) (*model.Scenario, error) {
	args := m.Called(ctx, id)
	sc, _ := args.Get(0).(*model.Scenario)
	return sc, args.Error(1)
}

func (m *MockRemotePort) DeleteScenario(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRemotePort) ToggleScenarioActivation(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRemotePort) ToggleEntityState(ctx context.Context, id string, itemType model.ItemType, on bool) error {
	return m.Called(ctx, id, itemType, on).Error(0)
}

func (m *MockRemotePort) CreateScenario(ctx context.Context, s *model.Scenario) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockRemotePort) Configure(cfg *model.Config) {
	m.Called(cfg)
}

func (m *MockRemotePort) IsConfigured() bool {
	return m.Called().Bool(0)
}

type memConfigRepo struct {
	cfg *model.Config
}

func (r *memConfigRepo) Get(ctx context.Context) (*model.Config, error) {
	if r.cfg == nil {
		return model.DefaultConfig(), nil
	}
	c := *r.cfg
	return &c, nil
}

func (r *memConfigRepo) Save(ctx context.Context, cfg *model.Config) error {
	c := *cfg
	r.cfg = &c
	return nil
}

type memDocs struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (d *memDocs) Read(ctx context.Context, name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[name]
	if !ok {
		return nil, model.ErrNotFound
	}
	return data, nil
}

func (d *memDocs) Write(ctx context.Context, name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.files == nil {
		d.files = map[string][]byte{}
	}
	d.files[name] = data
	return nil
}

func onOff(v bool) []model.Capability {
	return []model.Capability{{Type: "devices.capabilities.on_off", State: model.CapabilityState{Instance: "on", Value: v}}}
}

func inventory() *model.Inventory {
	lamp := &model.Device{ID: "d1", Name: "Лампа", Type: "devices.types.light", Capabilities: onOff(false)}
	return &model.Inventory{
		Devices:     []*model.Device{lamp},
		DeviceIndex: map[string]*model.Device{"d1": lamp},
		Groups:      []*model.Group{{ID: "g1", Name: "Весь свет", Capabilities: onOff(true)}},
	}
}

func scenarios() []*model.Scenario {
	return []*model.Scenario{
		{ID: "s1", Name: "Утро", IsActive: true, Triggers: []model.Trigger{}, Steps: []model.Step{}},
		{ID: "s2", Name: "Ночь", IsActive: false, Triggers: []model.Trigger{}, Steps: []model.Step{}},
	}
}

func configured() *MockRemotePort {
	m := new(MockRemotePort)
	m.On("IsConfigured").Return(true)
	return m
}

func fetched(t *testing.T, remote *MockRemotePort, docs *memDocs) *Service {
	t.Helper()
	remote.On("FetchScenarios", mock.Anything).Return(scenarios(), nil).Once()
	remote.On("FetchDevices", mock.Anything).Return(inventory(), nil).Once()
	s := NewService(remote, &memConfigRepo{}, docs, nil)
	_, err := s.Fetch(context.Background())
	require.NoError(t, err)
	return s
}

func TestService_FetchBuildsSnapshot(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Scenarios, 2)
	assert.Len(t, snap.Devices, 1)
	assert.Len(t, snap.Groups, 1)
	assert.True(t, s.lookup.Built())
	remote.AssertExpectations(t)
}

func TestService_NotConfigured(t *testing.T) {
	remote := new(MockRemotePort)
	remote.On("IsConfigured").Return(false)
	s := NewService(remote, &memConfigRepo{}, nil, nil)

	_, err := s.Fetch(context.Background())
	assert.True(t, errors.Is(err, model.ErrNotConfigured))
	assert.True(t, errors.Is(s.DeleteScenario(context.Background(), "s1"), model.ErrNotConfigured))
	remote.AssertNotCalled(t, "FetchScenarios", mock.Anything)
}

func TestService_FetchFailureKeepsSnapshot(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)
	before := s.Snapshot()

	remote.On("FetchScenarios", mock.Anything).Return([]*model.Scenario(nil), model.ErrTimeout).Once()
	_, err := s.Fetch(context.Background())
	assert.True(t, errors.Is(err, model.ErrTimeout))
	assert.Same(t, before, s.Snapshot())
}

func TestService_ExportRequiresSnapshot(t *testing.T) {
	s := NewService(configured(), &memConfigRepo{}, &memDocs{}, nil)
	_, err := s.Export(context.Background(), "")
	assert.True(t, errors.Is(err, model.ErrNoSnapshot))
}

func TestService_ExportWritesDocument(t *testing.T) {
	docs := &memDocs{}
	s := fetched(t, configured(), docs)

	data, err := s.Export(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, data, docs.files[model.DefaultExportPath])
	assert.Contains(t, string(data), "scenarios:")

	_, err = s.Export(context.Background(), "custom.yaml")
	require.NoError(t, err)
	assert.Contains(t, docs.files, "custom.yaml")
}

func TestService_ExportThenImport(t *testing.T) {
	docs := &memDocs{}
	remote := configured()
	s := fetched(t, remote, docs)
	_, err := s.Export(context.Background(), "home.yaml")
	require.NoError(t, err)

	b, err := s.LoadImport(context.Background(), "home.yaml", nil)
	require.NoError(t, err)
	assert.Len(t, b.Scenarios, 2)

	remote.On("CreateScenario", mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, s.SetSelected(model.CategoryScenarios, "s2", false))
	report, err := s.RunImport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, report.Scenarios[0].Status)
	assert.Equal(t, model.StatusNone, report.Scenarios[1].Status)
	assert.Equal(t, model.StatusFailure, report.Devices[0].Status)
	remote.AssertNumberOfCalls(t, "CreateScenario", 1)
}

func TestService_SelectOnlyByPosition(t *testing.T) {
	docs := &memDocs{}
	remote := configured()
	s := fetched(t, remote, docs)
	assert.True(t, errors.Is(s.SelectAll(false), model.ErrInvalidState))

	_, err := s.Export(context.Background(), "home.yaml")
	require.NoError(t, err)
	_, err = s.LoadImport(context.Background(), "home.yaml", nil)
	require.NoError(t, err)

	require.NoError(t, s.SelectAll(false))
	require.NoError(t, s.SelectAt(model.CategoryScenarios, 1, true))
	assert.True(t, errors.Is(s.SelectAt(model.CategoryScenarios, 2, true), model.ErrNotFound))

	remote.On("CreateScenario", mock.Anything, mock.MatchedBy(func(sc *model.Scenario) bool {
		return sc.ID == "s2"
	})).Return(nil).Once()
	report, err := s.RunImport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.StatusNone, report.Scenarios[0].Status)
	assert.Equal(t, model.StatusSuccess, report.Scenarios[1].Status)
	assert.Equal(t, model.StatusNone, report.Devices[0].Status)
	remote.AssertNumberOfCalls(t, "CreateScenario", 1)
}

func TestService_DescribeUsesSeededNames(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)
	sc := &model.Scenario{
		ID: "x",
		Steps: []model.Step{{
			Type: model.StepTypeActions,
			Items: []model.ActionItem{{
				ID:    "d1",
				Type:  model.ActionItemDevice,
				Value: model.ActionValue{Capabilities: onOff(true)},
			}},
		}},
	}

	d, err := s.Describe(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Нет триггеров"}, d.Triggers)
	assert.Equal(t, []string{"Лампа: включится"}, d.Steps)
	remote.AssertNumberOfCalls(t, "FetchDevices", 1)
}

func TestService_DescribeDegradesWithoutNames(t *testing.T) {
	remote := configured()
	remote.On("FetchDevices", mock.Anything).Return(nil, model.ErrTimeout)
	s := NewService(remote, &memConfigRepo{}, nil, nil)
	sc := &model.Scenario{Steps: []model.Step{{
		Type:  model.StepTypeActions,
		Items: []model.ActionItem{{ID: "d1", Value: model.ActionValue{Capabilities: onOff(false)}}},
	}}}

	d, err := s.Describe(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1: выключится"}, d.Steps)
}

func TestService_GroupDetailsPopulatesSnapshot(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)
	detail := &model.Group{ID: "g1", Name: "Весь свет", Devices: []*model.Device{{ID: "d1", Name: "Лампа"}}}
	remote.On("FetchGroupDetails", mock.Anything, "g1").Return(detail, nil)

	g, err := s.GroupDetails(context.Background(), "g1")
	require.NoError(t, err)
	assert.Same(t, detail, g)

	known, ok := s.Snapshot().Group("g1")
	require.True(t, ok)
	assert.Len(t, known.Devices, 1)
}

func TestService_DeleteAndActivation(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)
	remote.On("DeleteScenario", mock.Anything, "s1").Return(nil)
	remote.On("ToggleScenarioActivation", mock.Anything, "s2", true).Return(nil)

	require.NoError(t, s.DeleteScenario(context.Background(), "s1"))
	require.Len(t, s.Snapshot().Scenarios, 1)

	require.NoError(t, s.ToggleScenarioActivation(context.Background(), "s2", true))
	sc, ok := s.Snapshot().Scenario("s2")
	require.True(t, ok)
	assert.True(t, sc.IsActive)
}

func TestService_DeleteFailureKeepsScenario(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)
	remote.On("DeleteScenario", mock.Anything, "s1").Return(model.ErrRequestFailed)

	assert.Error(t, s.DeleteScenario(context.Background(), "s1"))
	assert.Len(t, s.Snapshot().Scenarios, 2)
}

func TestService_ToggleEntityState(t *testing.T) {
	remote := configured()
	s := fetched(t, remote, nil)
	remote.On("ToggleEntityState", mock.Anything, "d1", model.ItemTypeDevice, true).Return(nil)
	remote.On("ToggleEntityState", mock.Anything, "g1", model.ItemTypeGroup, false).Return(nil)

	require.NoError(t, s.ToggleEntityState(context.Background(), "d1", true))
	assert.True(t, s.Snapshot().DeviceIndex["d1"].IsOn())

	require.NoError(t, s.ToggleEntityState(context.Background(), "g1", false))
	g, _ := s.Snapshot().Group("g1")
	assert.False(t, g.IsOn())
	remote.AssertExpectations(t)
}

func TestService_UpdateConfigReconfiguresRemote(t *testing.T) {
	remote := new(MockRemotePort)
	repo := &memConfigRepo{}
	s := NewService(remote, repo, nil, nil)
	cfg := &model.Config{Cookie: "c", CSRFToken: "t"}
	remote.On("Configure", mock.MatchedBy(func(c *model.Config) bool { return c.Cookie == "c" })).Return()

	require.NoError(t, s.UpdateConfig(context.Background(), cfg))

	got, err := s.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBaseURL, got.BaseURL)
	assert.Equal(t, "t", got.CSRFToken)
	remote.AssertExpectations(t)
}
