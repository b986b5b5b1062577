package model

const (
	placeholder = "—"
	unnamed     = "Без названия"
)

// Row is the flat table view of any entity.
type Row struct {
	ID     string
	Name   string
	Type   string
	Status string
	Error  string
}

func RowOf(e Importable) Row {
	r := Row{
		ID:     orPlaceholder(e.EntityID()),
		Name:   unnamed,
		Status: e.State().DisplayStatus(),
		Error:  e.State().Error,
	}
	var name, typ, icon string
	switch v := e.(type) {
	case *Scenario:
		name, icon = v.Name, v.Icon
	case *Device:
		name, typ, icon = v.Name, v.Type, v.Icon
	case *Group:
		name, typ, icon = v.Name, v.Type, v.Icon
	}
	if name != "" {
		r.Name = name
	}
	r.Type = firstNonEmpty(typ, icon, placeholder)
	return r
}

func orPlaceholder(s string) string {
	return firstNonEmpty(s, placeholder)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
