package main

import (
	"fmt"

	"bitsy/internal/config"
	"bitsy/internal/controller"
	"bitsy/internal/kv"
	"bitsy/internal/logging"
	"bitsy/internal/notify"
	"bitsy/internal/storage"
	"bitsy/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// skipSetup marks commands that need neither config nor storage.
const skipSetup = "bitsy/skip-setup"

// cli carries the flags and the resources opened for one invocation.
type cli struct {
	configPath string
	dataDir    string
	backend    string
	verbose    bool
	noColor    bool

	cfg   *config.Config
	log   *zap.Logger
	area  kv.Store
	store *storage.Store
	ctrl  *controller.Controller
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "bitsy",
		Short: "bitsy - one pixel a day, ninety days at a time",
		Long: `bitsy is a pixel habit tracker for your terminal.

Each habit is a grid of 90 squares. Complete the glowing square once a day;
when the grid is full the cycle is celebrated and starts over.

Run without arguments to open the widget.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
		RunE: c.runWidget,
	}
	root.SetVersionTemplate(versionText())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/bitsy/config.yaml)")
	flags.StringVar(&c.dataDir, "data-dir", "", "data directory (overrides config)")
	flags.StringVar(&c.backend, "storage", "", "storage backend: file or sqlite (overrides config)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colors")

	root.AddCommand(
		newListCmd(c),
		newAddCmd(c),
		newMarkCmd(c),
		newSelectCmd(c),
		newResetCmd(c),
		newDeleteCmd(c),
		newThemeCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newBackupCmd(c),
		newRestoreCmd(c),
		newVersionCmd(),
	)
	return root
}

func versionText() string {
	return fmt.Sprintf("bitsy version %s\n  commit: %s\n  built:  %s\n", version, commit, date)
}

// setup loads the config, builds the logger and opens the key-value area.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}
	if c.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.dataDir != "" {
		c.cfg.DataDir = c.dataDir
	}
	if c.backend != "" {
		c.cfg.Storage.Backend = c.backend
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	dataDir := c.cfg.GetDataDir()
	c.log, err = logging.New(dataDir, c.cfg.Logging.Level, c.verbose)
	if err != nil {
		return err
	}

	c.area, err = kv.Open(c.cfg.Storage.Backend, dataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	c.store = storage.New(c.area, c.log)

	c.log.Debug("command starting",
		zap.String("command", cmd.CommandPath()),
		zap.String("data_dir", dataDir),
		zap.String("backend", c.cfg.Storage.Backend))
	return nil
}

// controller loads the habit state on first use.
func (c *cli) controller() *controller.Controller {
	if c.ctrl == nil {
		c.ctrl = controller.New(c.store, c.log,
			controller.WithTotalSquares(c.cfg.Habits.TotalSquares))
	}
	return c.ctrl
}

func (c *cli) close() error {
	var err error
	if c.area != nil {
		err = c.area.Close()
		c.area = nil
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
	return err
}

// saveErr turns a failed save into a command error.
func (c *cli) saveErr() error {
	if err := c.controller().Err(); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	return nil
}

func (c *cli) runWidget(cmd *cobra.Command, args []string) error {
	announcer := notify.NewAnnouncer(notify.New(),
		c.cfg.Notifications.Enabled, c.cfg.Notifications.Sound, c.log)

	return ui.Run(c.controller(), announcer, &ui.AppConfig{
		Keys:             &c.cfg.Keys,
		Theme:            &c.cfg.Theme,
		ConfirmDeletions: c.cfg.UX.ConfirmDeletions,
		GridColumns:      c.cfg.UX.GridColumns,
		DefaultColor:     c.cfg.Habits.DefaultColor,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
			return nil
		},
	}
}
