package ports

import (
	"context"
	"iot-scenario-porter/internal/domain/model"
)

// RemoteServicePort is the network boundary to the smart-home service.
// Every call is bounded by the client timeout; a timed out call returns an
// error matching model.ErrTimeout, any other failure model.ErrRequestFailed.
type RemoteServicePort interface {
	FetchScenarios(ctx context.Context) ([]*model.Scenario, error)
	FetchDevices(ctx context.Context) (*model.Inventory, error)
	FetchGroupDetails(ctx context.Context, id string) (*model.Group, error)
	FetchScenarioDetails(ctx context.Context, id string) (*model.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
	ToggleScenarioActivation(ctx context.Context, id string, active bool) error
	ToggleEntityState(ctx context.Context, id string, itemType model.ItemType, on bool) error
	CreateScenario(ctx context.Context, scenario *model.Scenario) error
	Configure(cfg *model.Config)
	IsConfigured() bool
}

// ScenarioCreator is the only remote operation an import run needs.
type ScenarioCreator interface {
	CreateScenario(ctx context.Context, scenario *model.Scenario) error
}
