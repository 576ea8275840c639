package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bitsy/internal/controller"
	"bitsy/internal/habit"
	"bitsy/internal/render"
	"bitsy/internal/state"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.controller().State()
			out := cmd.OutOrStdout()
			if len(st.Habits) == 0 {
				fmt.Fprintln(out, "No habits yet.")
				fmt.Fprintln(out, "Run 'bitsy add NAME' to create one.")
				return nil
			}
			for i, h := range st.Habits {
				marker := " "
				if i == st.SelectedIndex {
					marker = "*"
				}
				name := runewidth.FillRight(runewidth.Truncate(h.Name, 28, "…"), 28)
				fmt.Fprintf(out, "%s %2d  %s  %s  %s\n", marker, i+1, name, h.Color, render.Progress(h))
			}
			return nil
		},
	}
}

func newAddCmd(c *cli) *cobra.Command {
	var color string
	var progress bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a habit and select it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if color == "" {
				color = c.cfg.Habits.DefaultColor
			}
			h, err := c.controller().Create(habit.Spec{
				Name:         strings.Join(args, " "),
				Color:        color,
				ShowProgress: progress,
			})
			if err != nil {
				return err
			}
			if err := c.saveErr(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (%d squares)\n", h.Name, h.TotalSquares)
			return nil
		},
	}
	cmd.Flags().StringVarP(&color, "color", "c", "", "fill color as #RRGGBB (default from config)")
	cmd.Flags().BoolVarP(&progress, "progress", "p", false, "show the day and percent readout")
	return cmd
}

func newMarkCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mark",
		Short: "Complete today's square of the selected habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := c.controller()
			before, ok := ctrl.State().Current()
			if !ok {
				return fmt.Errorf("no habits yet")
			}
			if before.CurrentIndex >= before.TotalSquares {
				return fmt.Errorf("%s: %w; run 'bitsy reset'", before.Name, habit.ErrCycleFull)
			}
			events := ctrl.Dispatch(state.AdvanceCurrent{})
			if err := c.saveErr(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ev := range events {
				if done, ok := ev.(state.CycleCompleted); ok {
					cel := render.Celebrate(done.Habit)
					fmt.Fprintf(out, "🎉 %s %s\n", cel.Title, cel.Subtitle)
					fmt.Fprintln(out, cel.Message)
					return nil
				}
			}
			cur, _ := ctrl.State().Current()
			fmt.Fprintf(out, "✓ %s: %s\n", cur.Name, render.Progress(cur))
			return nil
		},
	}
}

func newSelectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "select N",
		Short: "Select habit N (1-based, as shown by list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid habit number %q", args[0])
			}
			ctrl := c.controller()
			if n < 1 || n > len(ctrl.State().Habits) {
				return fmt.Errorf("habit %d out of range (have %d)", n, len(ctrl.State().Habits))
			}
			ctrl.Dispatch(state.Select{Index: n - 1})
			if err := c.saveErr(); err != nil {
				return err
			}
			cur, _ := ctrl.State().Current()
			fmt.Fprintf(cmd.OutOrStdout(), "Selected %s (%s)\n", cur.Name, ctrl.View().Counter)
			return nil
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restart the cycle of the selected habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := c.controller()
			cur, ok := ctrl.State().Current()
			if !ok {
				return fmt.Errorf("no habits yet")
			}
			ctrl.Dispatch(state.ResetCurrent{})
			if err := c.saveErr(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s restarted at day 0\n", cur.Name)
			return nil
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the selected habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := c.controller()
			cur, ok := ctrl.State().Current()
			if !ok {
				return fmt.Errorf("no habits yet")
			}

			var confirm controller.Confirmer = controller.Always
			if !yes {
				confirm = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), cur.Name)
			}
			if !ctrl.Delete(confirm) {
				fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
				return nil
			}
			if err := c.saveErr(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", cur.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// promptConfirmer asks on out and reads a y/N answer from in.
func promptConfirmer(in io.Reader, out io.Writer, name string) controller.Confirmer {
	return controller.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s (%s) [y/N] ", prompt, name)
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && response == "" {
			fmt.Fprintln(out)
			return false
		}
		response = strings.TrimSpace(strings.ToLower(response))
		return response == "y" || response == "yes"
	})
}

func newThemeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Set or toggle the theme",
		Long:      "Without an argument the theme is toggled.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(state.ThemeLight), string(state.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := c.controller()
			if len(args) == 0 {
				ctrl.Dispatch(state.ToggleTheme{})
			} else {
				want := strings.ToLower(args[0])
				if want != string(state.ThemeLight) && want != string(state.ThemeDark) {
					return fmt.Errorf("unknown theme %q (want light or dark)", args[0])
				}
				ctrl.Dispatch(state.SetTheme{Theme: state.ParseTheme(want)})
			}
			if err := c.saveErr(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", ctrl.State().Theme)
			return nil
		},
	}
}
