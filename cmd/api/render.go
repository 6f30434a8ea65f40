package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"widgetry.dev/internal/chart"
	"widgetry.dev/internal/config"
	"widgetry.dev/internal/datalist"
	"widgetry.dev/internal/datepicker"
	"widgetry.dev/internal/gmap"
	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/timeline"
	"widgetry.dev/internal/tzconv"
	"widgetry.dev/internal/widget"
)

// definition is a widget described in a YAML file:
//
//	kind: timeline
//	id: schedule
//	widget: {height: 200px}
//	model:
//	  events:
//	    - {id: e1, start: 2024-01-02T10:00:00Z, data: Standup}
type definition struct {
	Kind string `yaml:"kind"`
	ID   string `yaml:"id"`
	// Chart is bar or line for chart definitions.
	Chart string `yaml:"chart"`

	Widget      yaml.Node                    `yaml:"widget"`
	Model       yaml.Node                    `yaml:"model"`
	Constraints datepicker.ConstraintsRecord `yaml:"constraints"`

	Rows             []map[string]string `yaml:"rows"`
	ItemField        string              `yaml:"itemField"`
	DescriptionField string              `yaml:"descriptionField"`
}

func newRenderCommand(configDir *string) *cobra.Command {
	var (
		format   string
		timeZone string
	)

	cmd := &cobra.Command{
		Use:   "render <definition.yaml>",
		Short: "Render a widget definition to markup and script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if timeZone == "" {
				if err := config.Load(*configDir); err != nil {
					return err
				}
				timeZone = viper.GetString("defaultTimeZone")
			}
			zone, err := tzconv.ResolveZone(timeZone)
			if err != nil {
				return fmt.Errorf("invalid time zone: %w", err)
			}
			logger := logging.NewStructuredLogger(cmd.ErrOrStderr(), slog.LevelWarn)

			def, err := readDefinition(args[0], logger)
			if err != nil {
				return err
			}
			rendered, err := renderDefinition(cmd.Context(), def, zone, time.Now)
			if err != nil {
				return err
			}
			return writeRendered(cmd.OutOrStdout(), rendered, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "Time zone for widgets that name none (default from config)")
	return cmd
}

func readDefinition(path string, logger *slog.Logger) (def definition, err error) {
	f, err := os.Open(path)
	if err != nil {
		return def, fmt.Errorf("error opening definition: %w", err)
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close_definition")

	if err := yaml.NewDecoder(f).Decode(&def); err != nil {
		return def, fmt.Errorf("error parsing definition %s: %w", path, err)
	}
	if def.ID == "" {
		return def, fmt.Errorf("definition %s has no id", path)
	}
	return def, nil
}

// decodeNode decodes node over the defaults already in dst. Widget types
// carry JSON tags, so the node goes through its generic form first.
func decodeNode(node *yaml.Node, dst interface{}) error {
	if node.Kind == 0 {
		return nil
	}
	var generic interface{}
	if err := node.Decode(&generic); err != nil {
		return err
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func renderDefinition(ctx context.Context, def definition, zone *time.Location, now func() time.Time) (widget.Rendered, error) {
	switch def.Kind {
	case "chart":
		c := chart.Chart{ClientID: def.ID}
		if err := decodeNode(&def.Widget, &c); err != nil {
			return widget.Rendered{}, fmt.Errorf("error decoding chart: %w", err)
		}
		c.ClientID = def.ID
		switch def.Chart {
		case "bar", "":
			m := chart.NewBarChartModel()
			if err := decodeNode(&def.Model, m); err != nil {
				return widget.Rendered{}, fmt.Errorf("error decoding bar chart model: %w", err)
			}
			return chart.Render(c, chart.BarRenderer{Model: m})
		case "line":
			m := chart.NewLineChartModel()
			if err := decodeNode(&def.Model, m); err != nil {
				return widget.Rendered{}, fmt.Errorf("error decoding line chart model: %w", err)
			}
			return chart.Render(c, chart.LineRenderer{Model: m})
		}
		return widget.Rendered{}, fmt.Errorf("unknown chart type %q", def.Chart)

	case "gmap":
		m := gmap.NewMap(def.ID)
		if err := decodeNode(&def.Widget, m); err != nil {
			return widget.Rendered{}, fmt.Errorf("error decoding map: %w", err)
		}
		m.ClientID = def.ID
		if def.Model.Kind != 0 {
			m.Model = gmap.NewMapModel()
			if err := decodeNode(&def.Model, m.Model); err != nil {
				return widget.Rendered{}, fmt.Errorf("error decoding map model: %w", err)
			}
		}
		if m.Model != nil {
			m.Model.AssignIDs()
		}
		return gmap.Render(m)

	case "datalist":
		d := datalist.NewDataList(def.ID)
		if def.Widget.Kind != 0 {
			if err := def.Widget.Decode(d); err != nil {
				return widget.Rendered{}, fmt.Errorf("error decoding data list: %w", err)
			}
		}
		d.ClientID = def.ID
		field := def.ItemField
		if field == "" {
			field = "label"
		}
		return datalist.Render(ctx, d, datalist.NewSliceModel(def.Rows), datalist.FieldItems(field, def.DescriptionField))

	case "datepicker":
		p := datepicker.NewDatePicker(def.ID)
		if err := decodeNode(&def.Widget, p); err != nil {
			return widget.Rendered{}, fmt.Errorf("error decoding date picker: %w", err)
		}
		p.ClientID = def.ID
		c, err := def.Constraints.Constraints(zone)
		if err != nil {
			return widget.Rendered{}, err
		}
		p.Constraints = c
		return datepicker.Render(p), nil

	case "timeline":
		t := timeline.NewTimeline(def.ID)
		if err := decodeNode(&def.Widget, t); err != nil {
			return widget.Rendered{}, fmt.Errorf("error decoding timeline: %w", err)
		}
		t.ClientID = def.ID
		var rec timeline.Record
		if err := decodeNode(&def.Model, &rec); err != nil {
			return widget.Rendered{}, fmt.Errorf("error decoding timeline model: %w", err)
		}
		m, err := rec.Model()
		if err != nil {
			return widget.Rendered{}, err
		}
		return timeline.Render(t, m, timeline.RenderContext{Now: now, DefaultZone: zone})
	}
	return widget.Rendered{}, fmt.Errorf("unknown widget kind %q", def.Kind)
}

func writeRendered(w io.Writer, r widget.Rendered, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "text":
		_, err := fmt.Fprintf(w, "%s\n<script>%s</script>\n", r.Markup, r.Script)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
