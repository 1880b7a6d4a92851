package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"dis8080/internal/bytesource"
	"dis8080/internal/config"
	"dis8080/internal/dis8080/log"
	"dis8080/internal/i8080"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dis8080 [file]",
		Short: "Static Intel 8080 disassembler",
		Long: `dis8080 decodes a raw Intel 8080 program image into one mnemonic line per
instruction, prefixed with the instruction address. Jumps and calls are
printed, never followed.`,
		Example: `
# Disassemble a ROM image
dis8080 invaders.rom

# Show raw bytes, starting at the CP/M TPA
dis8080 --bytes --origin 0x100 program.com

# Browse interactively
dis8080 -t invaders.rom
  `,
		Args:          requireInput,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	rootCmd.PersistentFlags().StringP("config", "C", "", "JSON configuration file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug logging")
	rootCmd.PersistentFlags().StringP("origin", "o", "0", "Address of the first byte (0x100, $100, 100h or decimal)")
	rootCmd.PersistentFlags().BoolP("undocumented", "u", false, "Decode CB/D9/DD/ED/FD as JMP/RET/CALL aliases")
	rootCmd.PersistentFlags().String("theme", "", "Report theme: charm or vscode")

	rootCmd.Flags().BoolP("json", "j", false, "Output a JSON document instead of text lines")
	rootCmd.Flags().BoolP("bytes", "b", false, "Show the raw instruction bytes")
	rootCmd.Flags().BoolP("tui", "t", false, "Browse the listing interactively")
	rootCmd.Flags().Bool("no-color", false, "Disable syntax highlighting")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSchemaCmd())
	return rootCmd
}

// requireInput checks for exactly one non-empty program image path.
func requireInput(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return config.ErrNoInput
	}
	if len(args) > 1 {
		return fmt.Errorf("expected one file, got %d", len(args))
	}
	return nil
}

// resolveConfig merges the config file, environment and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("origin") {
		s, _ := flags.GetString("origin")
		if cfg.Origin, err = config.ParseOrigin(s); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("undocumented") {
		cfg.Undocumented, _ = flags.GetBool("undocumented")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("theme") {
		cfg.Theme, _ = flags.GetString("theme")
	}
	if flags.Lookup("bytes") != nil && flags.Changed("bytes") {
		cfg.ShowBytes, _ = flags.GetBool("bytes")
	}
	if flags.Lookup("no-color") != nil && flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}

	return cfg, cfg.Validate()
}

func decoderOptions(cfg config.Config) []i8080.Option {
	return []i8080.Option{
		i8080.WithOrigin(cfg.Origin),
		i8080.WithUndocumented(cfg.Undocumented),
		i8080.WithLogger(slog.Default()),
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// terminalWidth returns the column count of w, or 80 when unknown.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(f.Fd()); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log.Setup(cfg.Debug)

	stop, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer stop()

	src, err := bytesource.Load(args[0])
	if err != nil {
		return err
	}
	slog.Debug("Disassembling", "file", src.Path, "size", src.Len(), "origin", cfg.Origin)

	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	tui, _ := cmd.Flags().GetBool("tui")

	switch {
	case jsonOutput:
		return writeJSON(out, src, cfg)
	case tui && isTerminal(out):
		return runTUI(cmd.Context(), src, cfg)
	default:
		color := !cfg.NoColor && isTerminal(out)
		return writeListing(out, src, cfg, color)
	}
}

func runTUI(ctx context.Context, src *bytesource.Source, cfg config.Config) error {
	stream, decodeErr := i8080.Decode(src, decoderOptions(cfg)...)

	program := tea.NewProgram(
		NewModel(src.Path, src.Len(), stream, decodeErr, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		slog.Error("TUI run error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return decodeErr
}

// startProfiling honours --cpuprofile and --memprofile. The returned func
// stops the CPU profile and writes the heap profile.
func startProfiling(cmd *cobra.Command) (func(), error) {
	var stops []func()

	if cpuprofile, _ := cmd.Flags().GetString("cpuprofile"); cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		stops = append(stops, func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}

	if memprofile, _ := cmd.Flags().GetString("memprofile"); memprofile != "" {
		stops = append(stops, func() {
			f, err := os.Create(memprofile)
			if err != nil {
				slog.Error("could not create memory profile", "error", err)
				return
			}
			defer f.Close()
			if err := pprof.WriteHeapProfile(f); err != nil {
				slog.Error("could not write memory profile", "error", err)
			}
		})
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}, nil
}

func Execute() {
	rootCmd := newRootCmd()

	// fang renders help and errors as styled markdown; keep plain cobra
	// when the output is piped or machine readable
	plain := !term.IsTerminal(os.Stdout.Fd())
	for _, arg := range os.Args[1:] {
		if arg == "--json" || arg == "-j" {
			plain = true
			break
		}
	}

	var err error
	if plain {
		if err = rootCmd.Execute(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	} else {
		err = fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		)
	}

	log.Close()
	if err != nil {
		os.Exit(1)
	}
}
