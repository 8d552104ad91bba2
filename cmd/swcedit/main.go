package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/npratt/swcedit/internal/config"
	"github.com/npratt/swcedit/internal/editor"
	"github.com/npratt/swcedit/internal/events"
	"github.com/npratt/swcedit/internal/morph"
	"github.com/npratt/swcedit/internal/shutdown"
	"github.com/npratt/swcedit/internal/swc"
	"github.com/npratt/swcedit/internal/tui"
	"github.com/npratt/swcedit/internal/viewmodel"
)

var version = "dev"

// tuiEventBuffer sizes the editor's event subscription so a burst of edits
// never blocks the router.
const tuiEventBuffer = 1000

// inspectReport is the machine-readable output of inspect.
type inspectReport struct {
	Stats morph.Stats        `json:"stats" yaml:"stats"`
	Tree  viewmodel.Snapshot `json:"tree" yaml:"tree"`
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := SetupCLILogger(os.Stderr, logLevel)

	rootCmd := newRootCmd(viper.New(), logger, logLevel)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags, environment and config files
// all resolve through v.
func newRootCmd(v *viper.Viper, logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	v.SetEnvPrefix("SWCEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "swcedit",
		Short: "Build and edit SWC neuron morphologies",
		Long: `swcedit builds neuron skeletons as trees of segments, each placed by a
length and an angle relative to its parent, and reads and writes them as SWC
files.

Use "swcedit edit" for the interactive terminal editor, or the other commands
to inspect and convert files in scripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command flags bind at run time so commands may share flag names.
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if v.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .swcedit/config.yaml)")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "swcedit %s\n", version)
		},
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Write a fresh tree holding only the soma",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			session, err := editor.New(cfg, nil, logger)
			if err != nil {
				return err
			}
			name, text, err := session.Export()
			if err != nil {
				return err
			}
			out := v.GetString(FlagOutput)
			if out == "" {
				out = name
			}
			return writeOutput(cmd.OutOrStdout(), out, text+"\n")
		},
	}
	newCmd.Flags().StringP(FlagOutput, "o", "", "Output file (default: export.reset_name, - for stdout)")

	inspectCmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize, dump or check an SWC file",
		Long: `Parse an SWC file and report on it.

By default a summary is printed. --json and --yaml dump the statistics and the
full placed tree. --check verifies the tree invariants and geometry after a
parse and exits non-zero if any fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			session, err := loadSession(cfg, logger, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := inspectReport{Stats: session.Stats(), Tree: session.Snapshot()}

			switch {
			case v.GetBool(FlagCheck):
				if err := session.Tree().Validate(); err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				_, _ = fmt.Fprintf(out, "%s: ok (%d nodes)\n", args[0], report.Stats.Nodes)
				return nil

			case v.GetBool(FlagJSON):
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal report: %w", err)
				}
				_, _ = fmt.Fprintln(out, string(data))
				return nil

			case v.GetBool(FlagYAML):
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("marshal report: %w", err)
				}
				return enc.Close()
			}

			printSummary(out, report)
			return nil
		},
	}
	inspectCmd.Flags().Bool(FlagJSON, false, "Output the report as JSON")
	inspectCmd.Flags().Bool(FlagYAML, false, "Output the report as YAML")
	inspectCmd.Flags().Bool(FlagCheck, false, "Verify tree invariants and geometry")
	inspectCmd.MarkFlagsMutuallyExclusive(FlagJSON, FlagYAML, FlagCheck)

	normalizeCmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Clean up whitespace and blank lines in an SWC file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			out := v.GetString(FlagOutput)
			if out == "" {
				out = "-"
			}
			return writeOutput(cmd.OutOrStdout(), out, swc.Normalize(text)+"\n")
		},
	}
	normalizeCmd.Flags().StringP(FlagOutput, "o", "", "Output file (default: stdout)")

	convertCmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Rewrite an SWC file in canonical form",
		Long: `Parse an SWC file and write it back out: samples renumbered 1..N in
depth-first order, coordinates relative to the soma and the soma typed 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			session, err := loadSession(cfg, logger, args[0])
			if err != nil {
				return err
			}
			_, text, err := session.Export()
			if err != nil {
				return err
			}
			out := v.GetString(FlagOutput)
			if out == "" {
				out = "-"
			}
			return writeOutput(cmd.OutOrStdout(), out, text+"\n")
		},
	}
	convertCmd.Flags().StringP(FlagOutput, "o", "", "Output file (default: stdout)")

	editCmd := &cobra.Command{
		Use:   "edit [FILE]",
		Short: "Open the interactive tree editor",
		Long: `Open the terminal editor, starting from FILE or from a fresh tree.

Edits are published as events to the event log (paths.events) and the debug
log is written to paths.log so nothing is printed over the editor.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if density := v.GetString(FlagDensity); density != "" {
				cfg.TUI.Density = density
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
			}

			exportDir := v.GetString(FlagExportDir)
			if exportDir == "" {
				exportDir = "."
				if len(args) == 1 {
					exportDir = filepath.Dir(args[0])
				}
			}
			if exportDir, err = config.ExpandPath(exportDir); err != nil {
				return err
			}

			return runEditor(cmd.Context(), cfg, logLevel, exportDir, args)
		},
	}
	editCmd.Flags().String(FlagExportDir, "", "Directory 'w' writes to (default: the opened file's directory)")
	editCmd.Flags().String(FlagDensity, "", "Tree line density (compact/standard/detailed)")

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent editor events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			path := cfg.Paths.Events

			if v.GetBool(FlagFollow) {
				return shutdown.Run(cmd.Context(), logger, 2*time.Second,
					func(ctx context.Context) error {
						return tailFollow(ctx, out, path)
					}, nil)
			}
			return tailLast(out, path, v.GetInt(FlagCount))
		},
	}
	eventsCmd.Flags().BoolP(FlagFollow, "f", false, "Follow event stream (like tail -f)")
	eventsCmd.Flags().IntP(FlagCount, "n", 20, "Number of recent events to show")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(eventsCmd)

	return rootCmd
}

// runEditor wires the session, event log and terminal editor together and
// blocks until the editor exits.
func runEditor(ctx context.Context, cfg *config.Config, logLevel slog.Leveler, exportDir string, args []string) error {
	if err := os.MkdirAll(cfg.Paths.Log, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	tuiLog, err := SetupTUILogger(cfg.Paths.Log, logLevel, cfg.LogRotation)
	if err != nil {
		return err
	}
	defer func() { _ = tuiLog.Close() }()
	logger := tuiLog.Logger
	slog.SetDefault(logger)

	router := events.NewRouter(events.DefaultBufferSize, logger)
	logSink := events.NewLogSink(cfg.Paths.Events, cfg.LogRotation)

	sinkCtx, sinkCancel := context.WithCancel(ctx)
	defer sinkCancel()

	if err := logSink.Start(sinkCtx, router.Subscribe()); err != nil {
		router.Close()
		return fmt.Errorf("start log sink: %w", err)
	}
	tuiEvents := router.SubscribeBuffered(tuiEventBuffer)

	stop := func() {
		sinkCancel()
		router.Close()
		_ = logSink.Stop()
	}

	session, err := editor.New(cfg, router, logger)
	if err != nil {
		stop()
		return err
	}
	if len(args) == 1 {
		text, err := readInput(args[0])
		if err != nil {
			stop()
			return err
		}
		if err := session.Import(args[0], text); err != nil {
			stop()
			return err
		}
	}

	logger.Info("editor starting",
		"version", version,
		"name", session.Name(),
		"events", cfg.Paths.Events,
		"export_dir", exportDir,
	)

	app := tui.New(session, tuiEvents,
		tui.WithConfig(cfg.TUI),
		tui.WithExportDir(exportDir),
		tui.WithOnQuit(func() { logger.Info("editor quit requested") }),
	)
	runErr := app.Run()
	router.Unsubscribe(tuiEvents)

	stop()
	if dropped := router.Dropped(); dropped > 0 {
		logger.Warn("events dropped", "count", dropped)
	}
	return runErr
}

// loadSession parses the file at path into a fresh session that publishes
// nothing.
func loadSession(cfg *config.Config, logger *slog.Logger, path string) (*editor.Session, error) {
	text, err := readInput(path)
	if err != nil {
		return nil, err
	}
	session, err := editor.New(cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	if err := session.Import(path, text); err != nil {
		return nil, err
	}
	return session, nil
}

// readInput reads an SWC file. A path of "-" reads stdin.
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes text to the file at path, or to stdout for "-".
func writeOutput(stdout io.Writer, path, text string) error {
	if path == "-" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(expanded, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printSummary writes the human-readable inspect output.
func printSummary(w io.Writer, r inspectReport) {
	s := r.Stats
	_, _ = fmt.Fprintf(w, "Name: %s\n", r.Tree.Name)
	_, _ = fmt.Fprintf(w, "Nodes: %d (%d segments)\n", s.Nodes, s.Segments)
	_, _ = fmt.Fprintf(w, "Soma radius: %g\n", s.SomaRadius)
	_, _ = fmt.Fprintf(w, "Tips: %d\n", s.Tips)
	_, _ = fmt.Fprintf(w, "Branch points: %d\n", s.BranchPoints)
	_, _ = fmt.Fprintf(w, "Max depth: %d\n", s.MaxDepth)
	_, _ = fmt.Fprintf(w, "Total length: %.4g\n", s.TotalLength)
	_, _ = fmt.Fprintf(w, "Types:\n")
	for _, t := range morph.Types {
		if n := s.TypeCounts[t]; n > 0 {
			_, _ = fmt.Fprintf(w, "  %-16s %d\n", t.String()+":", n)
		}
	}
	custom := 0
	for t, n := range s.TypeCounts {
		if t > morph.TypeCustom {
			custom += n
		}
	}
	if custom > 0 {
		_, _ = fmt.Fprintf(w, "  %-16s %d\n", "other custom:", custom)
	}
}
