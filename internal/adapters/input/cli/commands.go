package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"iot-scenario-porter/internal/domain/model"
	"iot-scenario-porter/internal/ports"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// FetchCmd prints the current scenarios, devices and groups.
func FetchCmd(porter ports.PorterPort) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Show scenarios, devices and groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := porter.Fetch(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, header("Данные УДЯ", "", report.StartedAt, report.Duration))
			snap := report.Snapshot
			printSection(out, "Сценарии", homeTable(lo.Map(snap.Scenarios, func(s *model.Scenario, _ int) homeRow {
				return homeRow{Row: model.RowOf(s), On: s.IsActive}
			})))
			printSection(out, "Устройства", homeTable(lo.Map(snap.Devices, func(d *model.Device, _ int) homeRow {
				return homeRow{Row: model.RowOf(d), On: d.IsOn()}
			})))
			printSection(out, "Группы", homeTable(lo.Map(snap.Groups, func(g *model.Group, _ int) homeRow {
				return homeRow{Row: model.RowOf(g), On: g.IsOn()}
			})))
			return nil
		},
	}
}

func ExportCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch the home and write it as a YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			if _, err := porter.Fetch(cmd.Context()); err != nil {
				return describeError(err)
			}
			data, err := porter.Export(cmd.Context(), output)
			if err != nil {
				return describeError(err)
			}
			if output == "" {
				cfg, err := porter.GetConfig(cmd.Context())
				if err != nil {
					return err
				}
				output = cfg.ExportPath
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Экспортировано в %s (%d байт)\n", output, len(data))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "File to write (defaults to the configured export path)")
	return cmd
}

func ImportCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create the scenarios of an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			only, _ := cmd.Flags().GetStringSlice("only")
			skip, _ := cmd.Flags().GetStringSlice("skip")
			skipAt, _ := cmd.Flags().GetStringSlice("skip-at")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			b, err := porter.LoadImport(cmd.Context(), args[0], nil)
			if err != nil {
				return describeError(err)
			}
			if len(only) > 0 {
				if err := porter.SelectAll(false); err != nil {
					return err
				}
				for _, id := range only {
					if err := selectID(porter, id, true); err != nil {
						return err
					}
				}
			}
			for _, id := range skip {
				if err := selectID(porter, id, false); err != nil {
					return err
				}
			}
			for _, pos := range skipAt {
				c, index, err := parsePosition(pos)
				if err != nil {
					return err
				}
				if err := porter.SelectAt(c, index, false); err != nil {
					return fmt.Errorf("%q: %w", pos, err)
				}
			}
			if dryRun {
				fmt.Fprintf(out, "Настройки импорта\nФайл: %s\n", b.FileName)
				printBatch(out, b.Scenarios, b.Devices, b.Groups, true)
				return nil
			}

			report, err := porter.RunImport(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintln(out, header("Результат импорта данных", report.FileName, report.StartedAt, report.Duration))
			printBatch(out, report.Scenarios, report.Devices, report.Groups, false)
			if errs := report.Errors(); len(errs) > 0 {
				fmt.Fprintln(out, "Ошибки:")
				for _, e := range errs {
					fmt.Fprintln(out, "  "+e)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("only", nil, "Import only these ids (repeatable)")
	cmd.Flags().StringSlice("skip", nil, "Ids to leave out of the import (repeatable)")
	cmd.Flags().StringSlice("skip-at", nil, "Positions to leave out, as category:N with N from the dry-run table (repeatable)")
	cmd.Flags().Bool("dry-run", false, "Only show what would be imported")
	return cmd
}

// selectID ticks or unticks id in whichever categories contain it.
func selectID(porter ports.PorterPort, id string, selected bool) error {
	found := false
	for _, c := range model.Categories {
		err := porter.SetSelected(c, id, selected)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, model.ErrNotFound):
			return err
		}
	}
	if !found {
		return fmt.Errorf("%q is not in the import file", id)
	}
	return nil
}

// parsePosition reads "scenarios:2" into a category and a zero-based index.
func parsePosition(pos string) (model.Category, int, error) {
	name, num, ok := strings.Cut(pos, ":")
	c := model.Category(name)
	if !ok || !lo.Contains(model.Categories, c) {
		return "", 0, fmt.Errorf("%q: expected <scenarios|devices|groups>:N", pos)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("%q: position must be a number from 1", pos)
	}
	return c, n - 1, nil
}

func DescribeCmd(porter ports.PorterPort) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <scenario-id>",
		Short: "Explain what a scenario does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := porter.ScenarioDetails(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			d, err := porter.Describe(cmd.Context(), s)
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\nТриггеры:\n", s.DisplayName())
			for _, line := range d.Triggers {
				fmt.Fprintln(out, "  • "+line)
			}
			fmt.Fprintln(out, "Действия:")
			for _, line := range d.Steps {
				fmt.Fprintln(out, "  • "+line)
			}
			return nil
		},
	}
}

// GroupCmd prints the member devices of a group.
func GroupCmd(porter ports.PorterPort) *cobra.Command {
	return &cobra.Command{
		Use:   "group <group-id>",
		Short: "Show the devices of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := porter.GroupDetails(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d)\n", g.DisplayName(), len(g.Devices))
			printSection(out, "Устройства", homeTable(lo.Map(g.Devices, func(d *model.Device, _ int) homeRow {
				return homeRow{Row: model.RowOf(d), On: d.IsOn()}
			})))
			return nil
		},
	}
}

func DeleteCmd(porter ports.PorterPort) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <scenario-id>",
		Short: "Delete a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := porter.DeleteScenario(cmd.Context(), args[0]); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Сценарий %s удалён\n", args[0])
			return nil
		},
	}
}

func ActivateCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activate <scenario-id>",
		Short: "Enable or disable a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, _ := cmd.Flags().GetBool("off")
			if err := porter.ToggleScenarioActivation(cmd.Context(), args[0], !off); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Сценарий %s %s\n", args[0], lo.Ternary(off, "выключен", "включён"))
			return nil
		},
	}
	cmd.Flags().Bool("off", false, "Disable instead of enable")
	return cmd
}

func ToggleCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <device-or-group-id>",
		Short: "Switch a device or group on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			off, _ := cmd.Flags().GetBool("off")
			// Group ids are only recognised after a fetch.
			if _, err := porter.Fetch(cmd.Context()); err != nil {
				return describeError(err)
			}
			if err := porter.ToggleEntityState(cmd.Context(), args[0], !off); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], lo.Ternary(off, "выключено", "включено"))
			return nil
		},
	}
	cmd.Flags().Bool("off", false, "Switch off instead of on")
	return cmd
}

func ConfigCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := porter.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base_url:    %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "cookie:      %s\n", mask(cfg.Cookie))
			fmt.Fprintf(out, "csrf_token:  %s\n", mask(cfg.CSRFToken))
			fmt.Fprintf(out, "timeout:     %s\n", cfg.Timeout)
			fmt.Fprintf(out, "export_path: %s\n", cfg.ExportPath)
			return nil
		},
	}
	cmd.AddCommand(configSetCmd(porter))
	return cmd
}

func configSetCmd(porter ports.PorterPort) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := porter.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.BaseURL, _ = flags.GetString("base-url")
			}
			if flags.Changed("cookie") {
				cfg.Cookie, _ = flags.GetString("cookie")
			}
			if flags.Changed("csrf-token") {
				cfg.CSRFToken, _ = flags.GetString("csrf-token")
			}
			if flags.Changed("timeout") {
				cfg.Timeout, _ = flags.GetDuration("timeout")
			}
			if flags.Changed("export-path") {
				cfg.ExportPath, _ = flags.GetString("export-path")
			}
			if err := porter.UpdateConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Настройки сохранены")
			return nil
		},
	}
	cmd.Flags().String("base-url", "", "API base URL")
	cmd.Flags().String("cookie", "", "Session cookie header value")
	cmd.Flags().String("csrf-token", "", "Anti-forgery token")
	cmd.Flags().Duration("timeout", 0, "Per-request timeout")
	cmd.Flags().String("export-path", "", "Default export file")
	return cmd
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", 8)
}

func header(title, fileName string, start time.Time, took time.Duration) string {
	var b strings.Builder
	b.WriteString(title)
	if fileName != "" {
		b.WriteString("\nФайл: " + fileName)
	}
	fmt.Fprintf(&b, "\nНачало: %s\nЗавершено за: %.2f сек", start.Format("02.01.2006 15:04:05"), took.Seconds())
	return b.String()
}

// describeError turns well-known failures into user-facing messages.
func describeError(err error) error {
	switch {
	case errors.Is(err, model.ErrTimeout):
		return fmt.Errorf("превышено время ожидания ответа: %w", err)
	case errors.Is(err, model.ErrNotConfigured):
		return fmt.Errorf("не заданы cookie и csrf-токен (porter config set): %w", err)
	case errors.Is(err, model.ErrNoSnapshot):
		return fmt.Errorf("нет данных для экспорта: %w", err)
	case errors.Is(err, model.ErrParse):
		return fmt.Errorf("ошибка при импорте: %w", err)
	default:
		return err
	}
}
