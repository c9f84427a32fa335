package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

type listedSkin struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Modified  string `json:"modified"`
}

func newListCmd(cc *cliContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [folder]",
		Short: "List the skin archives in a folder (default: the configured skin folder)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := cc.config.SkinDirectory
			if len(args) == 1 {
				folder = args[0]
			}

			engine := cc.newEngine()
			defer engine.Shutdown()

			skins, err := engine.Library.ScanFolder(folder)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(toListed(skins))
			}

			tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, labelStyle.Render("NAME")+"\t"+labelStyle.Render("SIZE")+"\t"+labelStyle.Render("MODIFIED")+"\t"+labelStyle.Render("PATH"))
			for _, s := range toListed(skins) {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.SizeBytes, s.Modified, s.Path)
			}
			tw.Flush()
			fmt.Fprintf(out, "%d skins in %s\n", len(skins), folder)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}

func toListed(skins []domain.SkinEntry) []listedSkin {
	out := make([]listedSkin, len(skins))
	for i, s := range skins {
		out[i] = listedSkin{
			Name:      s.Name,
			Path:      s.Path,
			SizeBytes: s.SizeBytes,
			Modified:  s.ModTime.Format("2006-01-02 15:04"),
		}
	}
	return out
}
