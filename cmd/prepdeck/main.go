package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"prepdeck/internal/bootstrap"
	practicedto "prepdeck/internal/modules/practice/dto"
	"prepdeck/internal/platform/config"
	"prepdeck/internal/platform/logging"
	"prepdeck/internal/ui/cardfmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "prepdeck",
		Short:         "Interview flashcard practice",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (yaml or toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "text|json (overrides config)")

	root.AddCommand(newDeckCmd(&flags))
	root.AddCommand(newDrawCmd(&flags))
	root.AddCommand(newPracticeCmd(&flags))
	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newTUICmd(&flags))
	return root
}

// withApp loads config, builds the app and closes it once fn returns.
func withApp(flags *globalFlags, fn func(*bootstrap.App) error) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the practice terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, bootstrap.RunTUI)
		},
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the CSV proxy and deck API",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(flags, func(app *bootstrap.App) error {
				return bootstrap.RunServer(ctx, app)
			})
		},
	}
}

func newDeckCmd(flags *globalFlags) *cobra.Command {
	deck := &cobra.Command{Use: "deck", Short: "Load, import and inspect decks"}

	var refresh bool
	loadCmd := &cobra.Command{
		Use:   "load <deck>",
		Short: "Load a deck from cache or its CSV source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.DeckCLI.Load(cmd.Context(), args[0], refresh)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "loaded %d cards for %s from %s\n", out.Count, out.Deck, out.Origin)
				for _, e := range out.ParseErrors {
					_, _ = fmt.Fprintf(w, "  parse error: %s\n", e)
				}
				return nil
			})
		},
	}
	loadCmd.Flags().BoolVar(&refresh, "refresh", false, "skip caches and fetch the source")

	importCmd := &cobra.Command{
		Use:   "import <deck> <path>",
		Short: "Import a deck from a local CSV or XLSX file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				out, err := app.DeckCLI.Import(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d cards for %s from %s\n", out.Count, out.Deck, out.Path)
				return nil
			})
		},
	}

	var status string
	var excludeGreen bool
	listCmd := &cobra.Command{
		Use:   "list <deck>",
		Short: "List cards matching a filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				cards, err := app.DeckCLI.List(cmd.Context(), args[0], status, excludeGreen)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(cards) == 0 {
					_, _ = fmt.Fprintln(w, "no cards")
					return nil
				}
				colored := isTerminal(w)
				for _, c := range cards {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, cardfmt.Badge(c.Status, colored), c.Title)
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&status, "status", "all", "all|red|yellow|green")
	listCmd.Flags().BoolVar(&excludeGreen, "exclude-green", false, "drop green cards")

	summaryCmd := &cobra.Command{
		Use:   "summary <deck>",
		Short: "Show card counts per status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.DeckCLI.Summary(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cards (red=%d yellow=%d green=%d)\n", s.Label, s.Total, s.Red, s.Yellow, s.Green)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear-cache <deck>",
		Short: "Drop cached cards for a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				if err := app.DeckCLI.ClearCache(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cache cleared for %s\n", args[0])
				return nil
			})
		},
	}

	deck.AddCommand(loadCmd, importCmd, listCmd, summaryCmd, clearCmd)
	return deck
}

func newDrawCmd(flags *globalFlags) *cobra.Command {
	var status, format string
	var excludeGreen, notes bool
	var red, yellow, green float64

	cmd := &cobra.Command{
		Use:   "draw <deck>",
		Short: "Draw one weighted random card without touching practice state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cardfmt.ParseFormat(format)
			if err != nil {
				return err
			}
			return withApp(flags, func(app *bootstrap.App) error {
				weights := app.DefaultWeights(args[0])
				if cmd.Flags().Changed("red") {
					weights.Red = red
				}
				if cmd.Flags().Changed("yellow") {
					weights.Yellow = yellow
				}
				if cmd.Flags().Changed("green") {
					weights.Green = green
				}
				card, err := app.DeckCLI.Draw(cmd.Context(), args[0], status, excludeGreen, weights)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				return cardfmt.Write(w, card, f, cardfmt.Options{Notes: notes, Color: isTerminal(w)})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all|red|yellow|green")
	cmd.Flags().BoolVar(&excludeGreen, "exclude-green", false, "drop green cards")
	cmd.Flags().Float64Var(&red, "red", 0, "red weight (default from config)")
	cmd.Flags().Float64Var(&yellow, "yellow", 0, "yellow weight (default from config)")
	cmd.Flags().Float64Var(&green, "green", 0, "green weight (default from config)")
	cmd.Flags().StringVar(&format, "format", "text", "text|json|markdown")
	cmd.Flags().BoolVar(&notes, "notes", false, "include notes in text output")
	return cmd
}

func newPracticeCmd(flags *globalFlags) *cobra.Command {
	practice := &cobra.Command{Use: "practice", Short: "Stateful practice session per deck"}

	var format string
	practice.PersistentFlags().StringVar(&format, "format", "text", "text|json|markdown")

	current := func(use, short string, call func(*bootstrap.App) func(context.Context, string) (practicedto.CurrentOutput, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <deck>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := cardfmt.ParseFormat(format)
				if err != nil {
					return err
				}
				return withApp(flags, func(app *bootstrap.App) error {
					out, err := call(app)(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return writeCurrent(cmd.OutOrStdout(), out, f)
				})
			},
		}
	}

	showCmd := &cobra.Command{
		Use:   "show <deck>",
		Short: "Show weights, filter and current card id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.PracticeCLI.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				writeState(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	weightCmd := &cobra.Command{
		Use:   "weight <deck> <red|yellow|green> <value>",
		Short: "Set one status weight",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", args[2], err)
			}
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.PracticeCLI.SetWeight(cmd.Context(), args[0], args[1], value)
				if err != nil {
					return err
				}
				writeState(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	filterCmd := &cobra.Command{
		Use:   "filter <deck> <all|red|yellow|green>",
		Short: "Set the status filter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.PracticeCLI.Filter(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				writeState(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	excludeCmd := &cobra.Command{
		Use:   "exclude-green <deck>",
		Short: "Toggle excluding green cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(app *bootstrap.App) error {
				s, err := app.PracticeCLI.ExcludeGreen(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				writeState(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	practice.AddCommand(
		showCmd,
		current("next", "Draw the next card", func(a *bootstrap.App) func(context.Context, string) (practicedto.CurrentOutput, error) {
			return a.PracticeCLI.Next
		}),
		current("reveal", "Toggle the notes of the current card", func(a *bootstrap.App) func(context.Context, string) (practicedto.CurrentOutput, error) {
			return a.PracticeCLI.Reveal
		}),
		current("current", "Print the current card", func(a *bootstrap.App) func(context.Context, string) (practicedto.CurrentOutput, error) {
			return a.PracticeCLI.Current
		}),
		weightCmd,
		filterCmd,
		excludeCmd,
	)
	return practice
}

func writeState(w io.Writer, s practicedto.StateOutput) {
	exclude := ""
	if s.ExcludeGreen {
		exclude = " exclude-green"
	}
	_, _ = fmt.Fprintf(w, "%s: weights red=%g yellow=%g green=%g filter=%s%s\n",
		s.Deck, s.Weights.Red, s.Weights.Yellow, s.Weights.Green, s.Status, exclude)
	if s.CurrentCardID != "" {
		_, _ = fmt.Fprintf(w, "current=%s revealed=%t\n", s.CurrentCardID, s.Revealed)
	}
}

func writeCurrent(w io.Writer, out practicedto.CurrentOutput, f cardfmt.Format) error {
	if out.Card == nil {
		_, _ = fmt.Fprintln(w, "no current card")
		return nil
	}
	return cardfmt.Write(w, *out.Card, f, cardfmt.Options{Notes: out.State.Revealed, Color: isTerminal(w)})
}

// isTerminal reports whether w is a terminal; color is only used there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) && strings.TrimSpace(os.Getenv("NO_COLOR")) == ""
}
