package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dis8080/internal/bytesource"
	"dis8080/internal/dis8080/log"
	"dis8080/internal/dis8080/styles"
	"dis8080/internal/i8080"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarise a program image",
		Long: `Decode a program image and print a markdown summary: digest, size,
instruction counts and a mnemonic histogram. The summary is rendered when
writing to a terminal and printed as plain markdown otherwise.`,
		Example: `
# Mnemonic histogram of a ROM
dis8080 stats invaders.rom

# Raw markdown for a README
dis8080 stats invaders.rom > STATS.md
  `,
		Args: requireInput,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	log.Setup(cfg.Debug)

	src, err := bytesource.Load(args[0])
	if err != nil {
		return err
	}

	stream, decodeErr := i8080.Decode(src, decoderOptions(cfg)...)
	if decodeErr != nil {
		slog.Warn("Image ends inside an instruction", "error", decodeErr)
	}

	markdown := report{
		file:   src.Path,
		digest: digestOf(src.Bytes()),
		size:   src.Len(),
		origin: cfg.Origin,
		stream: stream,
		err:    decodeErr,
	}.markdown()

	out := cmd.OutOrStdout()
	if isTerminal(out) {
		markdown = styles.Render(cfg.Theme, terminalWidth(out)-2, markdown)
	}

	_, err = fmt.Fprint(out, markdown)
	return err
}
