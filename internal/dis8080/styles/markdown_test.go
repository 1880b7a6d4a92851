package styles

import (
	"strings"
	"testing"

	"dis8080/internal/ui/colorize"
)

func TestRender(t *testing.T) {
	markdown := "# Report\n\n| Mnemonic | Count |\n|---|---|\n| MOV | 3 |\n"

	for _, theme := range []string{"charm", "vscode", "unknown"} {
		t.Run(theme, func(t *testing.T) {
			out := colorize.Strip(Render(theme, 80, markdown))
			if !strings.Contains(out, "Report") || !strings.Contains(out, "MOV") {
				t.Errorf("rendered output lost content:\n%s", out)
			}
		})
	}
}
