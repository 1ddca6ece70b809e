package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"licensetree/pkg/report"
	"licensetree/pkg/scan"
)

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	opts := scanOpts{}

	cmd := &cobra.Command{
		Use:   "tui [path]",
		Short: "Browse the scanned tree and its license texts interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			rep, err := c.runScan(cmd.Context(), root, &opts)
			if err != nil {
				return err
			}
			model := newRecordListModel(rep)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&opts.lineEndings, "line-endings", "", "newline style for license text: lf, crlf, or cr (default: host OS)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the resolution cache")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache", "", "cache backend: file or redis")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "redis address for --cache redis (host:port)")
	return cmd
}

// recordListModel is the bubbletea model for browsing scan records. It
// has two screens: the package list and a scrollable license text view
// for the selected package.
type recordListModel struct {
	report  *report.Report
	cursor  int
	offset  int
	height  int
	showing bool // license text view open
	textTop int  // first visible line in the text view
}

func newRecordListModel(rep *report.Report) recordListModel {
	return recordListModel{report: rep, height: 15}
}

func (m recordListModel) Init() tea.Cmd {
	return nil
}

func (m recordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showing {
			return m.updateTextView(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m recordListModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.report.Records)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "enter":
		m.showing = true
		m.textTop = 0
	}
	return m, nil
}

func (m recordListModel) updateTextView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.showing = false
	case "up", "k":
		if m.textTop > 0 {
			m.textTop--
		}
	case "down", "j":
		lines := m.textLines()
		if m.textTop < len(lines)-m.height {
			m.textTop++
		}
	}
	return m, nil
}

func (m recordListModel) View() string {
	if m.showing {
		return m.textView()
	}
	return m.listView()
}

func (m recordListModel) listView() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Licenses: %s", m.report.Root)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("up/down navigate  enter view text  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.report.Records) {
		end = len(m.report.Records)
	}

	for i := m.offset; i < end; i++ {
		rec := m.report.Records[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s %-40s %s", cursor, statusIcon(rec),
			rec.Name+"@"+rec.Version, styleDim.Render(displayLocalPath(rec)))

		if i == m.cursor {
			b.WriteString(styleSelected.Render(line))
		} else if rec.ImproperlyLicensed() {
			b.WriteString(styleDim.Render(line))
		} else {
			b.WriteString(styleListEntry.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.report.Records))))
	return b.String()
}

func (m recordListModel) textView() string {
	rec := m.report.Records[m.cursor]

	var b strings.Builder
	b.WriteString(styleTitle.Render(rec.Name + "@" + rec.Version))
	b.WriteString("\n")
	if rec.DeclaredLicense != "" {
		b.WriteString(styleDim.Render("declared: ") + styleValue.Render(rec.DeclaredLicense))
		b.WriteString("\n")
	}
	b.WriteString(styleDim.Render("up/down scroll  esc back  q quit"))
	b.WriteString("\n\n")

	lines := m.textLines()
	end := m.textTop + m.height
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[m.textTop:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m recordListModel) textLines() []string {
	rec := m.report.Records[m.cursor]
	return strings.Split(rec.License.Display(), "\n")
}

func statusIcon(rec scan.Record) string {
	switch {
	case rec.Unlicensed():
		return styleIconError.Render(iconError)
	case rec.ImproperlyLicensed():
		return styleIconWarning.Render(iconWarning)
	case rec.License.Kind == scan.ResolutionReadme:
		return styleIconInfo.Render(iconInfo)
	default:
		return styleIconSuccess.Render(iconSuccess)
	}
}

func displayLocalPath(rec scan.Record) string {
	if rec.LocalPath == "" {
		return "."
	}
	return rec.LocalPath
}
