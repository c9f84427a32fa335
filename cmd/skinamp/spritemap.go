package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

func newSpriteMapCmd(cc *cliContext) *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "spritemap",
		Short: "List the sprite map and check it against the sheet sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sheet = strings.ToLower(sheet)

			tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SPRITE\tSHEET\tX\tY\tW\tH")
			count := 0
			for _, name := range domain.SpriteNames() {
				r, _ := domain.LookupSprite(name)
				if sheet != "" && r.Sheet != sheet {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
					r.Name, r.Sheet, r.Rect.Min.X, r.Rect.Min.Y, r.Rect.Dx(), r.Rect.Dy())
				count++
			}
			tw.Flush()

			if sheet != "" && count == 0 {
				return fmt.Errorf("no sprites on sheet %q", sheet)
			}

			if errs := domain.ValidateSpriteMap(); len(errs) > 0 {
				return fmt.Errorf("sprite map check failed: %w", errors.Join(errs...))
			}
			cc.logger.Debug("sprite map ok")
			fmt.Fprintf(out, "%d sprites\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "only list sprites on this sheet, e.g. cbuttons.bmp")
	return cmd
}
