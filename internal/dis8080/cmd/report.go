package cmd

import (
	"fmt"
	pathpkg "path/filepath"
	"sort"
	"strings"

	"dis8080/internal/disasm"
)

type mnemonicCount struct {
	mnemonic string
	count    int
	first    uint16 // address of the first occurrence
}

// countMnemonics tallies the stream by mnemonic, most frequent first and
// alphabetical among equals.
func countMnemonics(stream disasm.Stream) []mnemonicCount {
	index := make(map[string]int)
	var counts []mnemonicCount

	for _, inst := range stream {
		n, ok := index[inst.Op]
		if !ok {
			n = len(counts)
			index[inst.Op] = n
			counts = append(counts, mnemonicCount{mnemonic: inst.Op, first: inst.Addr})
		}
		counts[n].count++
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].mnemonic < counts[j].mnemonic
	})
	return counts
}

// Control transfer mnemonics, conditional forms included.
var (
	jumpOps   = []string{"JMP", "JNZ", "JZ", "JNC", "JC", "JPO", "JPE", "JP", "JM", "PCHL"}
	callOps   = []string{"CALL", "CNZ", "CZ", "CNC", "CC", "CPO", "CPE", "CP", "CM", "RST"}
	returnOps = []string{"RET", "RNZ", "RZ", "RNC", "RC", "RPO", "RPE", "RP", "RM"}
)

func countIn(counts []mnemonicCount, ops []string) int {
	total := 0
	for _, c := range counts {
		for _, op := range ops {
			if c.mnemonic == op {
				total += c.count
			}
		}
	}
	return total
}

type report struct {
	file    string
	digest  string
	size    int
	origin  uint16
	stream  disasm.Stream
	err     error
	pending string // shown in place of the digest while it is computed
}

// markdown renders the report as a markdown document.
func (r report) markdown() string {
	var lines []string

	dir := pathpkg.Dir(r.file)
	if dir != "." && dir != "" {
		lines = append(lines, fmt.Sprintf("; %s/", dir))
	}
	lines = append(lines, fmt.Sprintf("; %s", pathpkg.Base(r.file)))

	switch {
	case r.digest != "":
		lines = append(lines, fmt.Sprintf("; %s", r.digest))
	case r.pending != "":
		lines = append(lines, "; "+r.pending)
	}

	last := r.origin + uint16(max(r.size, 1)-1)
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("; %d bytes at %04X-%04X", r.size, r.origin, last))
	lines = append(lines, fmt.Sprintf("; %d instructions, %d unknown", len(r.stream), r.stream.Unknown()))

	var b strings.Builder
	fmt.Fprintf(&b, "# dis8080\n\n```\n%s\n```\n", strings.Join(lines, "\n"))

	if r.err != nil {
		fmt.Fprintf(&b, "\n**Error:** %s\n", r.err)
	}

	counts := countMnemonics(r.stream)
	if len(counts) == 0 {
		return b.String()
	}

	b.WriteString("\n## Control flow\n\n")
	fmt.Fprintf(&b, "- Jumps: %d\n", countIn(counts, jumpOps))
	fmt.Fprintf(&b, "- Calls: %d\n", countIn(counts, callOps))
	fmt.Fprintf(&b, "- Returns: %d\n", countIn(counts, returnOps))

	b.WriteString("\n## Mnemonics\n\n")
	b.WriteString("| Mnemonic | Count | Share | First |\n")
	b.WriteString("|---|---:|---:|---|\n")
	for _, c := range counts {
		share := float64(c.count) * 100 / float64(len(r.stream))
		fmt.Fprintf(&b, "| %s | %d | %.1f%% | %04X |\n", escapeMarkdown(c.mnemonic), c.count, share, c.first)
	}

	return b.String()
}

// escapeMarkdown keeps "???" and friends literal inside tables.
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}
