package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tejashwikalptaru/skinamp/internal/app"
	"github.com/tejashwikalptaru/skinamp/internal/logger"
)

// cliContext carries what PersistentPreRunE resolved to the subcommands.
type cliContext struct {
	cfgFile string
	verbose bool

	config app.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	cc := &cliContext{}

	rootCmd := &cobra.Command{
		Use:   "skinamp [skin.wsz]",
		Short: "A classic WinAmp 2.x skin engine",
		Long: `skinamp loads classic WinAmp 2.x skins (.wsz) and renders them.

Without a subcommand it opens the skinned main window, restoring the last
skin or loading the one given as argument.

Examples:
  skinamp
  skinamp ~/skins/Bento.wsz
  skinamp inspect Bento.wsz --json
  skinamp extract Bento.wsz --out sprites --scale 2
  skinamp validate Bento.wsz
  skinamp spritemap --sheet cbuttons.bmp
  skinamp list ~/skins`,
		Version:       app.GetVersionInfo().FullString(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cc, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cc.cfgFile, "config", "", "config file (default is $HOME/.skinamp.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&cc.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newInspectCmd(cc),
		newExtractCmd(cc),
		newValidateCmd(cc),
		newSpriteMapCmd(cc),
		newListCmd(cc),
	)
	return rootCmd
}

func (cc *cliContext) init() error {
	config, err := app.LoadConfig(cc.cfgFile)
	if err != nil {
		return err
	}
	if cc.verbose {
		config.LogLevel = "debug"
	}
	cc.config = config
	cc.logger = logger.NewLogger(config.LoggerConfig())
	cc.logger.Debug("config loaded", slog.String("file", cc.cfgFile))
	return nil
}

// runGUI opens the skinned window and blocks until it is closed.
func runGUI(cc *cliContext, args []string) error {
	application, err := app.NewApplication(cc.config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			cc.logger.Warn("shutdown error", slog.Any("error", err))
		}
	}()

	if len(args) == 1 {
		if err := application.OpenSkin(args[0]); err != nil {
			return err
		}
	} else {
		application.RestoreLastSkin()
	}

	application.Run()
	return nil
}

// newEngine builds a headless pipeline for one-shot commands.
func (cc *cliContext) newEngine() *app.Engine {
	return app.NewEngine(cc.config, cc.logger, nil)
}
