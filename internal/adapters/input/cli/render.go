package cli

import (
	"fmt"
	"io"
	"strconv"

	"iot-scenario-porter/internal/domain/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type homeRow struct {
	model.Row
	On bool
}

func homeTable(rows []homeRow) *table.Table {
	return newTable("ID", "Название", "Тип/Иконка", "Вкл/выкл").
		Rows(lo.Map(rows, func(r homeRow, _ int) []string {
			return []string{r.ID, r.Name, r.Type, lo.Ternary(r.On, "вкл", "выкл")}
		})...)
}

func statusTable(items []model.Importable, withSelection bool) *table.Table {
	headers := []string{"ID", "Название", "Тип/Иконка", "Статус"}
	if withSelection {
		headers = append([]string{"№", "Выбрать"}, headers...)
	}
	return newTable(headers...).
		Rows(lo.Map(items, func(it model.Importable, i int) []string {
			r := model.RowOf(it)
			status := r.Status
			if r.Error != "" {
				status = failureStyle.Render(status)
			}
			cells := []string{r.ID, r.Name, r.Type, status}
			if withSelection {
				cells = append([]string{strconv.Itoa(i + 1), lo.Ternary(it.State().Selected, "[x]", "[ ]")}, cells...)
			}
			return cells
		})...)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func printSection(out io.Writer, title string, t *table.Table) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, sectionStyle.Render(title))
	fmt.Fprintln(out, t.Render())
}

func printBatch(out io.Writer, scenarios []*model.Scenario, devices []*model.Device, groups []*model.Group, withSelection bool) {
	b := model.ImportBatch{Scenarios: scenarios, Devices: devices, Groups: groups}
	titles := map[model.Category]string{
		model.CategoryScenarios: "Сценарии",
		model.CategoryDevices:   "Устройства",
		model.CategoryGroups:    "Группы",
	}
	for _, c := range model.Categories {
		items := b.Items(c)
		if len(items) == 0 {
			continue
		}
		printSection(out, titles[c], statusTable(items, withSelection))
	}
}
