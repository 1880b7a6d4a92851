package cmd

import (
	"bufio"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"dis8080/internal/bytesource"
	"dis8080/internal/config"
	"dis8080/internal/disasm"
	"dis8080/internal/i8080"
	"dis8080/internal/ui/colorize"
)

// JSONOutput is the document printed by --json.
type JSONOutput struct {
	File         string          `json:"file"`
	Digest       string          `json:"digest"`
	Origin       string          `json:"origin"`
	Size         int             `json:"size"`
	Instructions []disasm.Record `json:"instructions"`
	Error        string          `json:"error,omitempty"`
}

func digestOf(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// writeListing streams one line per instruction to w. Lines decoded before
// a truncated tail are flushed before the error is returned.
func writeListing(w io.Writer, src *bytesource.Source, cfg config.Config, color bool) error {
	bw := bufio.NewWriter(w)

	format := disasm.Format
	if cfg.ShowBytes {
		format = disasm.FormatWithBytes
	}

	dec := i8080.NewDecoder(src, decoderOptions(cfg)...)
	err := dec.Walk(func(inst disasm.Inst) error {
		line := format(inst)
		if color {
			line = colorize.Line(line)
		}
		_, err := fmt.Fprintln(bw, line)
		return err
	})

	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	slog.Debug("Disassembled", "instructions", dec.Count(), "pc", fmt.Sprintf("%04X", dec.PC()), "remaining", src.Remaining())
	return err
}

// writeJSON decodes the whole image and prints a JSONOutput. A truncated
// tail is reported in the document and also returned.
func writeJSON(w io.Writer, src *bytesource.Source, cfg config.Config) error {
	stream, decodeErr := i8080.Decode(src, decoderOptions(cfg)...)

	output := JSONOutput{
		File:         src.Path,
		Digest:       digestOf(src.Bytes()),
		Origin:       fmt.Sprintf("%04X", cfg.Origin),
		Size:         src.Len(),
		Instructions: stream.Records(),
	}
	if decodeErr != nil {
		output.Error = decodeErr.Error()
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(jsonData)); err != nil {
		return err
	}
	return decodeErr
}
