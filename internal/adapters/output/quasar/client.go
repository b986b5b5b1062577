// Package quasar talks to the smart-home web API on behalf of the signed-in
// user. The session cookie and anti-forgery token are opaque to this package;
// they are attached to every request as configured.
package quasar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/domain/normalizer"
	"iot-scenario-porter/internal/logger"
	"iot-scenario-porter/internal/ports"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	devicesPath         = "/m/v3/user/devices"
	scenariosPath       = "/m/user/scenarios"
	scenarioPath        = "/m/user/scenarios/%s"
	scenarioDetailsPath = "/m/v4/user/scenarios/%s"
	activationPath      = "/m/user/scenarios/%s/activation"
	groupPath           = "/m/user/groups/%s"
	deviceActionsPath   = "/m/user/devices/%s/actions"
	groupActionsPath    = "/m/user/groups/%s/actions"
	createScenarioPath  = "/m/v4/user/scenarios/"
	csrfHeader          = "x-csrf-token"
	statusOK            = "ok"
)

type Client struct {
	log logger.Logger

	mu     sync.RWMutex
	cfg    model.Config
	client *resty.Client
}

var _ ports.RemoteServicePort = (*Client)(nil)

func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Client{log: log}
}

// Configure rebuilds the HTTP client from cfg. Requests are never retried.
func (c *Client) Configure(cfg *model.Config) {
	conf := *cfg
	conf.ApplyDefaults()
	conf.BaseURL = strings.TrimSuffix(conf.BaseURL, "/")

	client := resty.New().
		SetBaseURL(conf.BaseURL).
		SetTimeout(conf.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader(csrfHeader, conf.CSRFToken).
		SetHeader("Cookie", conf.Cookie).
		SetRetryCount(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = conf
	c.client = client
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client != nil && c.cfg.HasCredentials()
}

func (c *Client) FetchScenarios(ctx context.Context) ([]*model.Scenario, error) {
	body, err := c.do(ctx, http.MethodGet, scenariosPath, nil)
	if err != nil {
		return nil, err
	}
	return normalizer.Scenarios(body), nil
}

func (c *Client) FetchDevices(ctx context.Context) (*model.Inventory, error) {
	body, err := c.do(ctx, http.MethodGet, devicesPath, nil)
	if err != nil {
		return nil, err
	}
	return normalizer.Devices(body), nil
}

func (c *Client) FetchGroupDetails(ctx context.Context, id string) (*model.Group, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf(groupPath, id), nil)
	if err != nil {
		return nil, err
	}
	g := normalizer.GroupDetails(body)
	if g.ID == "" {
		return nil, fmt.Errorf("%w: group %s", model.ErrNotFound, id)
	}
	return g, nil
}

func (c *Client) FetchScenarioDetails(ctx context.Context, id string) (*model.Scenario, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf(scenarioDetailsPath, id), nil)
	if err != nil {
		return nil, err
	}
	s := normalizer.ScenarioDetails(body)
	if s.ID == "" {
		return nil, fmt.Errorf("%w: scenario %s", model.ErrNotFound, id)
	}
	return s, nil
}

// DeleteScenario succeeds only when the service answers with status "ok".
func (c *Client) DeleteScenario(ctx context.Context, id string) error {
	body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf(scenarioPath, id), nil)
	if err != nil {
		return err
	}
	if status := gjson.GetBytes(body, "status").String(); status != statusOK {
		return &model.RequestError{Message: fmt.Sprintf("удаление %s: статус %q", id, status)}
	}
	return nil
}

func (c *Client) ToggleScenarioActivation(ctx context.Context, id string, active bool) error {
	payload := map[string]bool{"is_active": active}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf(activationPath, id), payload)
	if err != nil {
		return err
	}
	return checkStatus(body)
}

// ToggleEntityState sends an on_off action to a device or a group.
func (c *Client) ToggleEntityState(ctx context.Context, id string, itemType model.ItemType, on bool) error {
	path := deviceActionsPath
	if itemType == model.ItemTypeGroup {
		path = groupActionsPath
	}
	payload := actionsRequest{Actions: []model.Capability{{
		Type:  "devices.capabilities.on_off",
		State: model.CapabilityState{Instance: "on", Value: on},
	}}}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf(path, id), payload)
	if err != nil {
		return err
	}
	return checkStatus(body)
}

func (c *Client) CreateScenario(ctx context.Context, s *model.Scenario) error {
	_, err := c.do(ctx, http.MethodPost, createScenarioPath, newCreateRequest(s))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return nil, model.ErrNotConfigured
	}

	req := client.R().SetContext(ctx)
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "err", err)
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%s %s: %w", method, path, model.ErrTimeout)
		}
		return nil, &model.RequestError{Message: err.Error()}
	}
	if resp.IsError() {
		c.log.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode())
		return nil, &model.RequestError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("HTTP ошибка: %d", resp.StatusCode()),
		}
	}
	c.log.Debug("request done", "method", method, "path", path, "status", resp.StatusCode(), "took", resp.Time())
	return resp.Body(), nil
}

// checkStatus rejects bodies that carry an explicit non-ok status.
func checkStatus(body []byte) error {
	status := gjson.GetBytes(body, "status")
	if status.Exists() && status.String() != statusOK {
		msg := gjson.GetBytes(body, "message").String()
		return &model.RequestError{Message: strings.TrimSpace(fmt.Sprintf("статус %q %s", status.String(), msg))}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
