package cmd

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"dis8080/internal/config"
	"dis8080/internal/dis8080/styles"
	"dis8080/internal/disasm"
	"dis8080/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewSummary
	viewMnemonics
)

type mnemonicItem struct {
	mnemonicCount
	line int // listing line of the first occurrence
}

func (i mnemonicItem) Title() string       { return i.mnemonic }
func (i mnemonicItem) Description() string { return "" }
func (i mnemonicItem) FilterValue() string { return i.mnemonic }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(mnemonicItem)
	if !ok {
		return
	}

	indicator := " "
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if index == m.Index() {
		indicator = ">"
		countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}

	fmt.Fprintf(w, " %s  %-5s %s  %s",
		indicator,
		i.mnemonic,
		countStyle.Render(fmt.Sprintf("%6d", i.count)),
		countStyle.Render(fmt.Sprintf("first at %04X", i.first)))
}

type model struct {
	listing       viewport.Model
	summary       viewport.Model
	mnemonics     list.Model
	spinner       spinner.Model
	mode          viewMode
	filepath      string
	digest        string
	loadingDigest bool
	size          int
	stream        disasm.Stream
	decodeErr     error
	cfg           config.Config
	width         int
	height        int
}

type digestCalculatedMsg struct {
	digest string
}

func calculateDigestCmd(filepath string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return digestCalculatedMsg{digest: fmt.Sprintf("error: %v", err)}
		}
		return digestCalculatedMsg{digest: fmt.Sprintf("%x", sha256.Sum256(data))}
	}
}

// NewModel builds the interactive browser over an already decoded stream.
func NewModel(filepath string, size int, stream disasm.Stream, decodeErr error, cfg config.Config) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)
	vp.SetContent(renderListing(stream, decodeErr, cfg))

	svp := viewport.New()
	svp.SetWidth(80)
	svp.SetHeight(24)

	counts := countMnemonics(stream)
	items := make([]list.Item, 0, len(counts))
	for _, c := range counts {
		items = append(items, mnemonicItem{mnemonicCount: c, line: stream.Index(c.first)})
	}

	mnemonics := list.New(items, itemDelegate{}, 80, 24)
	mnemonics.SetShowStatusBar(false)
	mnemonics.SetFilteringEnabled(true)
	mnemonics.Title = fmt.Sprintf("Mnemonics (%d distinct)", len(counts))
	mnemonics.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	mnemonics.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	m := model{
		listing:       vp,
		summary:       svp,
		mnemonics:     mnemonics,
		spinner:       s,
		mode:          viewListing,
		filepath:      filepath,
		loadingDigest: true,
		size:          size,
		stream:        stream,
		decodeErr:     decodeErr,
		cfg:           cfg,
		width:         80,
		height:        24,
	}
	m.updateSummary()

	return m
}

// renderListing formats the stream one instruction per line, highlighted
// unless colour is off.
func renderListing(stream disasm.Stream, decodeErr error, cfg config.Config) string {
	format := disasm.Format
	if cfg.ShowBytes {
		format = disasm.FormatWithBytes
	}

	lines := make([]string, 0, len(stream)+1)
	for _, inst := range stream {
		line := format(inst)
		if !cfg.NoColor {
			line = colorize.Line(line)
		}
		lines = append(lines, line)
	}

	if decodeErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		lines = append(lines, errStyle.Render("; "+decodeErr.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		calculateDigestCmd(m.filepath),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case digestCalculatedMsg:
		m.digest = msg.digest
		m.loadingDigest = false
		m.updateSummary()
		return m, nil

	case spinner.TickMsg:
		if !m.loadingDigest {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateSummary()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.listing.SetWidth(msg.Width)
			m.listing.SetHeight(msg.Height - 2)
			m.summary.SetWidth(msg.Width)
			m.summary.SetHeight(msg.Height - 2)
			m.mnemonics.SetWidth(msg.Width)
			m.mnemonics.SetHeight(msg.Height - 2)
			m.updateSummary()
		}

	case tea.KeyMsg:
		if m.mode == viewMnemonics && m.mnemonics.FilterState() == list.Filtering {
			if s := msg.String(); s == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.mode = viewListing
			return m, nil
		case "s":
			m.mode = viewSummary
			return m, nil
		case "m":
			m.mode = viewMnemonics
			return m, nil
		case "enter":
			if m.mode == viewMnemonics {
				if item, ok := m.mnemonics.SelectedItem().(mnemonicItem); ok && item.line >= 0 {
					m.mode = viewListing
					m.listing.SetYOffset(item.line)
				}
			}
			return m, nil
		case "tab":
			m.mode = (m.mode + 1) % 3
			return m, nil
		case "shift+tab":
			m.mode = (m.mode + 2) % 3
			return m, nil
		}
	}

	switch m.mode {
	case viewMnemonics:
		m.mnemonics, cmd = m.mnemonics.Update(msg)
	case viewSummary:
		m.summary, cmd = m.summary.Update(msg)
	default:
		m.listing, cmd = m.listing.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content, menu string
	switch m.mode {
	case viewMnemonics:
		content = m.mnemonics.View()
		menu = " Enter: jump to first • L: listing • S: summary • Tab: cycle • Q: quit "
	case viewSummary:
		content = m.summary.View()
		menu = " L: listing • M: mnemonics • Tab: cycle • Q: quit "
	default:
		content = m.listing.View()
		menu = " S: summary • M: mnemonics • Tab: cycle • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) updateSummary() {
	r := report{
		file:   m.filepath,
		digest: m.digest,
		size:   m.size,
		origin: m.cfg.Origin,
		stream: m.stream,
		err:    m.decodeErr,
	}
	if m.loadingDigest {
		r.pending = m.spinner.View() + " Calculating digest..."
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	rendered := styles.Render(m.cfg.Theme, width-2, r.markdown())
	m.summary.SetContent(strings.TrimSuffix(rendered, "\n"))
}
