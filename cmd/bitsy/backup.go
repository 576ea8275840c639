package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"bitsy/internal/backup"

	"github.com/spf13/cobra"
)

func (c *cli) backups() *backup.Manager {
	return backup.NewManager(c.area, c.cfg.GetDataDir(), version)
}

func newBackupCmd(c *cli) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups",
		Long: `Create a timestamped snapshot of the stored habit data.

Backups are kept under the data directory in backups/ and can be
restored with 'bitsy restore'.`,
		Example: `  bitsy backup
  bitsy backup --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return listBackups(cmd.OutOrStdout(), c.backups())
			}
			return createBackup(cmd.OutOrStdout(), c.backups())
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	return cmd
}

func createBackup(out io.Writer, manager *backup.Manager) error {
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("read backup info: %w", err)
	}

	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  Habits: %d, Legacy habits: %d\n", info.Stats["habits"], info.Stats["legacy_habits"])
	fmt.Fprintf(out, "  Location: %s\n", info.Path)
	return nil
}

func listBackups(out io.Writer, manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'bitsy backup' to create one.")
		return nil
	}

	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   Habits: %d\n", b.Name, formatAge(b.CreatedAt), b.Stats["habits"])
	}
	return nil
}

func newRestoreCmd(c *cli) *cobra.Command {
	var latest, force bool

	cmd := &cobra.Command{
		Use:   "restore [BACKUP_NAME]",
		Short: "Restore habit data from a backup",
		Long: `Restore the stored habit data from a backup.

A safety backup of the current data is taken before anything is replaced.
Use 'bitsy backup --list' to see available backups.`,
		Example: `  bitsy restore 2026-03-01_143022_000
  bitsy restore --latest --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := c.backups()
			out := cmd.OutOrStdout()

			var name string
			switch {
			case latest:
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("list backups: %w", err)
				}
				if len(backups) == 0 {
					return fmt.Errorf("no backups available")
				}
				name = backups[0].Name
			case len(args) == 1:
				name = args[0]
			default:
				return fmt.Errorf("no backup specified; use 'bitsy restore BACKUP_NAME' or 'bitsy restore --latest'")
			}

			info, err := manager.GetBackup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Habits: %d\n", info.Stats["habits"])

			if !force {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "This will replace your current habit data.")
				fmt.Fprint(out, "Continue? [y/N] ")
				response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				response = strings.TrimSpace(strings.ToLower(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			fmt.Fprintln(out, "✓ Creating safety backup first...")
			safety, err := manager.Restore(name)
			if err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintf(out, "  Safety backup: %s\n", safety)
			fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore from the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
