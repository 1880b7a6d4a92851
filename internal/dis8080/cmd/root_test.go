package cmd

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dis8080/internal/bytesource"
	"dis8080/internal/config"
	"dis8080/internal/i8080"
)

// execute runs a fresh root command and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvNoColor, "")
	t.Setenv(config.EnvLogLevel, "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeImage(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}
	return path
}

func TestListing(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		args     []string
		expected string
	}{
		{
			name:     "rst and hlt",
			data:     []byte{0xFF, 0x76},
			expected: "0000 RST 7\n0001 HLT\n",
		},
		{
			name:     "register move",
			data:     []byte{0x41},
			expected: "0000 MOV B, C\n",
		},
		{
			name:     "immediate",
			data:     []byte{0x06, 0x99},
			expected: "0000 MVI B, #$99\n",
		},
		{
			name:     "jump then nop",
			data:     []byte{0xC3, 0x34, 0x12, 0x00},
			expected: "0000 JMP $1234\n0003 NOP\n",
		},
		{
			name:     "empty image",
			data:     []byte{},
			expected: "",
		},
		{
			name:     "origin",
			data:     []byte{0x00, 0x00},
			args:     []string{"--origin", "0x100"},
			expected: "0100 NOP\n0101 NOP\n",
		},
		{
			name:     "raw bytes",
			data:     []byte{0xC3, 0x34, 0x12, 0x00},
			args:     []string{"--bytes", "-o", "$100"},
			expected: "0100 C3 34 12  JMP $1234\n0103 00        NOP\n",
		},
		{
			name:     "undocumented off",
			data:     []byte{0xCB},
			expected: "0000 ??? $CB\n",
		},
		{
			name:     "undocumented on",
			data:     []byte{0xCB, 0x34, 0x12},
			args:     []string{"-u"},
			expected: "0000 JMP $1234\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, tt.data)
			out, err := execute(t, append(tt.args, path)...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if out != tt.expected {
				t.Errorf("output = %q, want %q", out, tt.expected)
			}
		})
	}
}

func TestListingTruncated(t *testing.T) {
	path := writeImage(t, []byte{0x00, 0xC3, 0x34})

	out, err := execute(t, path)
	if !errors.Is(err, i8080.ErrTruncated) {
		t.Fatalf("Execute() error = %v, want ErrTruncated", err)
	}
	if out != "0000 NOP\n" {
		t.Errorf("output = %q, want the lines before the truncated tail", out)
	}

	var te *i8080.TruncatedError
	if !errors.As(err, &te) || te.Addr != 0x0001 || te.Opcode != 0xC3 {
		t.Errorf("error detail = %+v", te)
	}
}

func TestInputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no file", []string{}, config.ErrNoInput},
		{"empty file name", []string{""}, config.ErrNoInput},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.rom")}, bytesource.ErrUnavailable},
		{"directory", []string{t.TempDir()}, bytesource.ErrUnavailable},
		{"bad origin", []string{"--origin", "0x10000", "x.rom"}, config.ErrInvalid},
		{"bad theme", []string{"--theme", "solarized", "x.rom"}, config.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %v", err, tt.want)
			}
			if out != "" {
				t.Errorf("unexpected output %q", out)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	data := []byte{0x31, 0x00, 0x24, 0x41, 0xCB}
	path := writeImage(t, data)

	out, err := execute(t, "--json", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var doc JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if doc.File != path || doc.Size != len(data) || doc.Origin != "0000" {
		t.Errorf("header = %+v", doc)
	}
	if want := fmt.Sprintf("%x", sha256.Sum256(data)); doc.Digest != want {
		t.Errorf("Digest = %s, want %s", doc.Digest, want)
	}
	if doc.Error != "" {
		t.Errorf("Error = %q", doc.Error)
	}
	if len(doc.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(doc.Instructions))
	}

	first := doc.Instructions[0]
	if first.Mnemonic != "LXI" || first.Bytes != "31 00 24" || strings.Join(first.Operands, ",") != "SP,#$2400" {
		t.Errorf("first record = %+v", first)
	}
	if last := doc.Instructions[2]; !last.Unknown || last.Address != "0004" {
		t.Errorf("last record = %+v", last)
	}
}

func TestJSONTruncated(t *testing.T) {
	path := writeImage(t, []byte{0x00, 0x3E})

	out, err := execute(t, "-j", path)
	if !errors.Is(err, i8080.ErrTruncated) {
		t.Fatalf("Execute() error = %v, want ErrTruncated", err)
	}

	var doc JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(doc.Instructions) != 1 || !strings.Contains(doc.Error, "truncated") {
		t.Errorf("doc = %+v", doc)
	}
}

func TestConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "dis8080.json")
	if err := os.WriteFile(cfgPath, []byte(`{"origin": 256, "showBytes": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeImage(t, []byte{0x00})

	out, err := execute(t, "--config", cfgPath, path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "0100 00        NOP\n" {
		t.Errorf("output = %q", out)
	}

	// flags win over the file
	out, err = execute(t, "--config", cfgPath, "--origin", "0", "--bytes=false", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "0000 NOP\n" {
		t.Errorf("output = %q", out)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "dis8080.json")
	if err := os.WriteFile(cfgPath, []byte(`{"undocumented": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeImage(t, []byte{0xD9})

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{path})
	t.Setenv(config.EnvConfig, cfgPath)
	t.Setenv(config.EnvNoColor, "")

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.String() != "0000 RET\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestStats(t *testing.T) {
	path := writeImage(t, []byte{0x41, 0x41, 0x00, 0xC3, 0x00, 0x00, 0xCD, 0x00, 0x00, 0xC9})

	out, err := execute(t, "stats", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"# dis8080",
		"; image.bin",
		"; 10 bytes at 0000-0009",
		"; 6 instructions, 0 unknown",
		"- Jumps: 1",
		"- Calls: 1",
		"- Returns: 1",
		"| MOV | 2 | 33.3% | 0000 |",
		"| NOP | 1 | 16.7% | 0002 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsTruncated(t *testing.T) {
	path := writeImage(t, []byte{0x00, 0x01, 0x02})

	out, err := execute(t, "stats", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "**Error:** truncated instruction at 0001") {
		t.Errorf("stats output does not report the truncated tail:\n%s", out)
	}
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, field := range []string{"origin", "undocumented", "showBytes", "noColor", "theme", "debug"} {
		if !strings.Contains(out, `"`+field+`"`) {
			t.Errorf("schema missing %q", field)
		}
	}
}
