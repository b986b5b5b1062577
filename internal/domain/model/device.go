package model

import "strings"

type ItemType string

const (
	ItemTypeDevice   ItemType = "device"
	ItemTypeGroup    ItemType = "group"
	ItemTypeScenario ItemType = "scenario"
)

const capabilityPrefix = "devices.capabilities."

// CapabilityKind is the closed set of capability shapes the renderer knows
// how to phrase. Everything else is CapabilityUnknown.
type CapabilityKind int

const (
	CapabilityUnknown CapabilityKind = iota
	CapabilityOnOff
	CapabilityRange
	CapabilityColorSetting
	CapabilityTTS
	CapabilityStopEverything
	CapabilityServerAction
)

type CapabilityState struct {
	Instance string `json:"instance,omitempty" yaml:"instance,omitempty"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
	Relative bool   `json:"relative,omitempty" yaml:"relative,omitempty"`
}

type Capability struct {
	Type  string          `json:"type" yaml:"type"`
	State CapabilityState `json:"state" yaml:"state"`
}

// ShortType strips the "devices.capabilities." namespace.
func (c Capability) ShortType() string {
	return strings.TrimPrefix(c.Type, capabilityPrefix)
}

// Kind classifies the capability by its type/instance pair.
func (c Capability) Kind() CapabilityKind {
	switch c.ShortType() {
	case "on_off":
		return CapabilityOnOff
	case "range":
		return CapabilityRange
	case "color_setting":
		return CapabilityColorSetting
	case "quasar.server_action":
		return CapabilityServerAction
	case "quasar":
		switch c.State.Instance {
		case "tts":
			return CapabilityTTS
		case "stop_everything":
			return CapabilityStopEverything
		}
	}
	return CapabilityUnknown
}

type Device struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Type         string       `json:"type" yaml:"type"`
	Icon         string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	ItemType     ItemType     `json:"item_type,omitempty" yaml:"item_type,omitempty"`
	Room         string       `json:"room,omitempty" yaml:"room,omitempty"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities"`
	ImportState  `yaml:",inline"`
}

func (d *Device) EntityID() string    { return d.ID }
func (d *Device) DisplayName() string { return displayName(d.Name, d.ID) }

// IsOn reports whether any on_off capability is currently true. Devices
// exposing several on_off capabilities count as on when any one of them is.
func (d *Device) IsOn() bool {
	for _, c := range d.Capabilities {
		if c.Kind() != CapabilityOnOff {
			continue
		}
		if v, ok := c.State.Value.(bool); ok && v {
			return true
		}
	}
	return false
}

type Group struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Type         string       `json:"type" yaml:"type"`
	Icon         string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	Capabilities []Capability `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Devices      []*Device    `json:"devices,omitempty" yaml:"devices,omitempty"`
	ImportState  `yaml:",inline"`
}

func (g *Group) EntityID() string    { return g.ID }
func (g *Group) DisplayName() string { return displayName(g.Name, g.ID) }

func (g *Group) IsOn() bool {
	d := Device{Capabilities: g.Capabilities}
	return d.IsOn()
}

// Snapshot is one normalized view of the user's home. Devices keeps the
// order of the source payload, DeviceIndex is the id-keyed view of it.
type Snapshot struct {
	Devices     []*Device
	DeviceIndex map[string]*Device
	Groups      []*Group
	Scenarios   []*Scenario
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Devices:     []*Device{},
		DeviceIndex: map[string]*Device{},
		Groups:      []*Group{},
		Scenarios:   []*Scenario{},
	}
}

// AddDevice appends d unless a device with the same id was already added.
func (s *Snapshot) AddDevice(d *Device) {
	if _, ok := s.DeviceIndex[d.ID]; ok {
		return
	}
	s.DeviceIndex[d.ID] = d
	s.Devices = append(s.Devices, d)
}

func (s *Snapshot) Empty() bool {
	return len(s.Devices) == 0 && len(s.Groups) == 0 && len(s.Scenarios) == 0
}

func (s *Snapshot) Group(id string) (*Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

func (s *Snapshot) Scenario(id string) (*Scenario, bool) {
	for _, sc := range s.Scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return nil, false
}

// Names maps every device and group id to its display name.
func (s *Snapshot) Names() map[string]string {
	names := make(map[string]string, len(s.Devices)+len(s.Groups))
	for _, d := range s.Devices {
		names[d.ID] = d.Name
	}
	for _, g := range s.Groups {
		names[g.ID] = g.Name
		for _, d := range g.Devices {
			if _, ok := names[d.ID]; !ok {
				names[d.ID] = d.Name
			}
		}
	}
	return names
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// Inventory is the device side of the user's home as returned by the
// remote service.
type Inventory struct {
	Devices     []*Device
	DeviceIndex map[string]*Device
	Groups      []*Group
}

func (inv *Inventory) Names() map[string]string {
	return (&Snapshot{Devices: inv.Devices, Groups: inv.Groups}).Names()
}
