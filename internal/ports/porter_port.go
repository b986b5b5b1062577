package ports

import (
	"context"
	"iot-scenario-porter/internal/domain/model"
)

// PorterPort is what front ends drive.
type PorterPort interface {
	Fetch(ctx context.Context) (*model.FetchReport, error)
	Export(ctx context.Context, name string) ([]byte, error)
	LoadImport(ctx context.Context, fileName string, data []byte) (*model.ImportBatch, error)
	SetSelected(category model.Category, id string, selected bool) error
	SelectAt(category model.Category, index int, selected bool) error
	SelectAll(selected bool) error
	RunImport(ctx context.Context) (*model.ImportReport, error)
	Describe(ctx context.Context, scenario *model.Scenario) (*model.Description, error)
	ScenarioDetails(ctx context.Context, id string) (*model.Scenario, error)
	GroupDetails(ctx context.Context, id string) (*model.Group, error)
	DeleteScenario(ctx context.Context, id string) error
	ToggleScenarioActivation(ctx context.Context, id string, active bool) error
	ToggleEntityState(ctx context.Context, id string, on bool) error

	GetConfig(ctx context.Context) (*model.Config, error)
	UpdateConfig(ctx context.Context, cfg *model.Config) error
}
