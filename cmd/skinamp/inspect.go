package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tejashwikalptaru/skinamp/internal/adapter/skinconfig"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
	"github.com/tejashwikalptaru/skinamp/internal/service"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DDC074"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

// sheetReport describes one decoded sheet.
type sheetReport struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// skinReport is the inspect output.
type skinReport struct {
	Name           string            `json:"name"`
	Key            string            `json:"key"`
	Path           string            `json:"path"`
	Sheets         []sheetReport     `json:"sheets"`
	MissingSheets  []string          `json:"missingSheets,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	RegionPixels   int               `json:"regionPixels"`
	PlaylistFont   string            `json:"playlistFont"`
	PlaylistColors map[string]string `json:"playlistColors"`
	VisColors      []string          `json:"visColors"`
}

func newInspectCmd(cc *cliContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [skin.wsz]",
		Short: "Show the sheets, warnings and colors of a skin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := cc.newEngine()
			defer engine.Shutdown()

			if err := engine.Manager.LoadSkin(context.Background(), args[0]); err != nil {
				return err
			}
			report := buildReport(engine.Manager.Current())

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func buildReport(skin *service.Skin) skinReport {
	model := skin.Source()
	cfg := skin.Config()

	report := skinReport{
		Name:          skin.Name(),
		Key:           skin.Key(),
		Path:          skin.Path(),
		MissingSheets: model.MissingSheets(),
		RegionPixels:  cfg.Region.Count(),
		PlaylistFont:  cfg.Playlist.Font,
		PlaylistColors: map[string]string{
			"normal":     skinconfig.FormatColor(cfg.Playlist.Normal),
			"current":    skinconfig.FormatColor(cfg.Playlist.Current),
			"normalBG":   skinconfig.FormatColor(cfg.Playlist.NormalBG),
			"selectedBG": skinconfig.FormatColor(cfg.Playlist.SelectedBG),
			"mbBG":       skinconfig.FormatColor(cfg.Playlist.MbBG),
			"mbFG":       skinconfig.FormatColor(cfg.Playlist.MbFG),
		},
	}

	for _, name := range domain.AllSheets() {
		if bm, ok := model.Sheet(name); ok {
			report.Sheets = append(report.Sheets, sheetReport{Name: name, Width: bm.Width(), Height: bm.Height()})
		}
	}
	for _, w := range skin.Warnings() {
		report.Warnings = append(report.Warnings, w.Error())
	}
	for _, c := range cfg.Vis {
		report.VisColors = append(report.VisColors, skinconfig.FormatColor(c))
	}
	return report
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("   ")
}

func printReport(out io.Writer, r skinReport) {
	fmt.Fprintln(out, headingStyle.Render(r.Name))

	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", labelStyle.Render("Key:"), r.Key)
	fmt.Fprintf(tw, "%s\t%s\n", labelStyle.Render("Path:"), r.Path)
	fmt.Fprintf(tw, "%s\t%d\n", labelStyle.Render("Region pixels:"), r.RegionPixels)
	fmt.Fprintf(tw, "%s\t%s\n", labelStyle.Render("Playlist font:"), r.PlaylistFont)
	tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, headingStyle.Render("Sheets"))
	tw = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, s := range r.Sheets {
		fmt.Fprintf(tw, "  %s\t%dx%d\n", s.Name, s.Width, s.Height)
	}
	for _, name := range r.MissingSheets {
		fmt.Fprintf(tw, "  %s\t%s\n", name, warnStyle.Render("missing"))
	}
	tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, headingStyle.Render("Playlist colors"))
	keys := make([]string, 0, len(r.PlaylistColors))
	for k := range r.PlaylistColors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw = tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "  %s\t%s %s\n", k, swatch(r.PlaylistColors[k]), r.PlaylistColors[k])
	}
	tw.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, headingStyle.Render("Visualizer colors"))
	var row strings.Builder
	for i, hex := range r.VisColors {
		row.WriteString(swatch(hex))
		if (i+1)%12 == 0 {
			fmt.Fprintln(out, "  "+row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		fmt.Fprintln(out, "  "+row.String())
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, headingStyle.Render("Warnings"))
		for _, w := range r.Warnings {
			fmt.Fprintln(out, "  "+warnStyle.Render(w))
		}
	}
}
