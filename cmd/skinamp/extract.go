package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tejashwikalptaru/skinamp/internal/domain"
)

func newExtractCmd(cc *cliContext) *cobra.Command {
	var (
		outDir string
		scale  int
	)

	cmd := &cobra.Command{
		Use:   "extract [skin.wsz]",
		Short: "Write every sprite of a skin as PNG",
		Long: `extract loads a skin and writes each sprite in the sprite map to
<out>/<sprite>.png. Sprites the skin does not provide come from the
default skin and are counted as fallbacks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale < 1 {
				return fmt.Errorf("--scale must be at least 1, got %d", scale)
			}

			engine := cc.newEngine()
			defer engine.Shutdown()

			if err := engine.Manager.LoadSkin(context.Background(), args[0]); err != nil {
				return err
			}
			skin := engine.Manager.Current()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", outDir, err)
			}

			written, fallbacks := 0, 0
			for _, name := range domain.SpriteNames() {
				sprite, ok := skin.Scaled(name, scale)
				if !ok {
					continue
				}
				if _, own := skin.Source().Sheet(sprite.Region.Sheet); !own {
					fallbacks++
				}
				if err := writePNG(filepath.Join(outDir, spriteFileName(name)), sprite); err != nil {
					return err
				}
				written++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sprites to %s (%d from the default skin)\n", written, outDir, fallbacks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "sprites", "output directory")
	cmd.Flags().IntVar(&scale, "scale", 1, "integer scale factor (2 for double size)")
	return cmd
}

// spriteFileName maps a sprite name to a portable file name. Font glyph names
// such as "text./" have their punctuation hex-escaped.
func spriteFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_%04x", r)
		}
	}
	return b.String() + ".png"
}

func writePNG(path string, sprite *domain.Sprite) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, sprite.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
