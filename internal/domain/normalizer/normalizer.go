// Package normalizer reshapes raw smart-home API payloads into model
// entities. It never fails: absent collections become empty ones and
// malformed entries get best-effort defaults.
package normalizer

import (
	"iot-scenario-porter/internal/domain/model"

	"github.com/tidwall/gjson"
)

const noType = "—"

// Devices normalizes a household tree {households:[{all:[...]}]} into an
// inventory. The older {rooms:[{devices}], groups} shape is accepted when
// households is absent.
func Devices(body []byte) *model.Inventory {
	root := gjson.ParseBytes(body)
	inv := &model.Inventory{
		Devices:     []*model.Device{},
		DeviceIndex: map[string]*model.Device{},
		Groups:      []*model.Group{},
	}

	if households := root.Get("households"); households.Exists() {
		for _, h := range Objects(households) {
			for _, item := range Objects(h.Get("all")) {
				addItem(inv, item)
			}
		}
		return inv
	}

	// legacy shape
	for _, room := range Objects(root.Get("rooms")) {
		for _, item := range Objects(room.Get("devices")) {
			addDevice(inv, Device(item))
		}
	}
	for _, item := range Objects(root.Get("unconfigured_devices")) {
		addDevice(inv, Device(item))
	}
	for _, item := range Objects(root.Get("groups")) {
		if g := Group(item); g.ID != "" {
			inv.Groups = append(inv.Groups, g)
		}
	}
	return inv
}

// addItem routes a household item by its item type: groups go to Groups,
// anything else is a device.
func addItem(inv *model.Inventory, item gjson.Result) {
	if model.ItemType(first(item, "item_type", "itemType").String()) == model.ItemTypeGroup {
		if g := Group(item); g.ID != "" {
			inv.Groups = append(inv.Groups, g)
		}
		return
	}
	addDevice(inv, Device(item))
}

func addDevice(inv *model.Inventory, d *model.Device) {
	if d.ID == "" {
		return
	}
	if _, dup := inv.DeviceIndex[d.ID]; dup {
		return
	}
	inv.DeviceIndex[d.ID] = d
	inv.Devices = append(inv.Devices, d)
}

func Device(item gjson.Result) *model.Device {
	id := item.Get("id").String()
	icon := item.Get("icon").String()
	d := &model.Device{
		ID:           id,
		Name:         firstNonEmpty(item.Get("name").String(), id),
		Type:         firstNonEmpty(item.Get("type").String(), icon, noType),
		Icon:         icon,
		ItemType:     model.ItemType(first(item, "item_type", "itemType").String()),
		Room:         first(item, "room_name", "room").String(),
		Capabilities: Capabilities(item.Get("capabilities")),
	}
	if d.ItemType == "" {
		d.ItemType = model.ItemTypeDevice
	}
	return d
}

func Group(item gjson.Result) *model.Group {
	id := item.Get("id").String()
	icon := item.Get("icon").String()
	g := &model.Group{
		ID:           id,
		Name:         firstNonEmpty(item.Get("name").String(), id),
		Type:         firstNonEmpty(item.Get("type").String(), icon, noType),
		Icon:         icon,
		Capabilities: Capabilities(item.Get("capabilities")),
	}
	for _, dev := range Objects(item.Get("devices")) {
		if d := Device(dev); d.ID != "" {
			g.Devices = append(g.Devices, d)
		}
	}
	return g
}

// GroupDetails accepts either a bare group or one wrapped in {group:{...}}.
func GroupDetails(body []byte) *model.Group {
	return Group(unwrap(gjson.ParseBytes(body), "group"))
}

func Capabilities(list gjson.Result) []model.Capability {
	caps := []model.Capability{}
	for _, c := range Objects(list) {
		state := c.Get("state")
		caps = append(caps, model.Capability{
			Type: c.Get("type").String(),
			State: model.CapabilityState{
				Instance: state.Get("instance").String(),
				Value:    state.Get("value").Value(),
				Relative: state.Get("relative").Bool(),
			},
		})
	}
	return caps
}

// Objects returns the object elements of list, or nil when list is not an
// array.
func Objects(list gjson.Result) []gjson.Result {
	if !list.IsArray() {
		return nil
	}
	var out []gjson.Result
	for _, r := range list.Array() {
		if r.IsObject() {
			out = append(out, r)
		}
	}
	return out
}

// first returns the first of paths that exists in r.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func unwrap(r gjson.Result, key string) gjson.Result {
	if inner := r.Get(key); inner.IsObject() {
		return inner
	}
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
