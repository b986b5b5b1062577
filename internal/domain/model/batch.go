package model

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryScenarios Category = "scenarios"
	CategoryDevices   Category = "devices"
	CategoryGroups    Category = "groups"
)

// Categories is the fixed order an import run walks.
var Categories = []Category{CategoryScenarios, CategoryDevices, CategoryGroups}

// ImportBatch holds the entities decoded from one import document.
type ImportBatch struct {
	FileName  string
	Scenarios []*Scenario
	Devices   []*Device
	Groups    []*Group
}

// Items returns the entities of one category in file order.
func (b *ImportBatch) Items(c Category) []Importable {
	var out []Importable
	switch c {
	case CategoryScenarios:
		for _, s := range b.Scenarios {
			out = append(out, s)
		}
	case CategoryDevices:
		for _, d := range b.Devices {
			out = append(out, d)
		}
	case CategoryGroups:
		for _, g := range b.Groups {
			out = append(out, g)
		}
	}
	return out
}

func (b *ImportBatch) Len() int {
	return len(b.Scenarios) + len(b.Devices) + len(b.Groups)
}

type ImportReport struct {
	RunID     string
	FileName  string
	StartedAt time.Time
	Duration  time.Duration
	Scenarios []*Scenario
	Devices   []*Device
	Groups    []*Group
}

// Errors lists "name: error" for every failed entity, scenarios first.
func (r *ImportReport) Errors() []string {
	batch := ImportBatch{Scenarios: r.Scenarios, Devices: r.Devices, Groups: r.Groups}
	var out []string
	for _, c := range Categories {
		for _, it := range batch.Items(c) {
			if msg := it.State().Error; msg != "" {
				out = append(out, fmt.Sprintf("%s: %s", it.DisplayName(), msg))
			}
		}
	}
	return out
}

type FetchReport struct {
	Snapshot  *Snapshot
	StartedAt time.Time
	Duration  time.Duration
}
