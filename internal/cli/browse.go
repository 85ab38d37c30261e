package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pipsleuth/pipsleuth/pkg/inspect"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newBrowseCmd creates the browse command, an interactive terminal view of
// scan results.
func newBrowseCmd(cfg *Config) *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively explore scan results in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanOptions, err := buildScanOptions(cfg, &opts)
			if err != nil {
				return err
			}

			pkgs, err := collectPackages(cmd.Context(), scanOptions)
			if err != nil {
				return err
			}

			model := NewPackageListModel(pkgs)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	addScanFlags(cmd, &opts)
	return cmd
}

// =============================================================================
// PackageListModel - Interactive package browser
// =============================================================================

// PackageListModel is the bubbletea model for browsing scan results.
// The list view shows one row per package; enter opens a detail view for the
// package under the cursor, esc returns to the list.
type PackageListModel struct {
	Packages []*inspect.PackageInfo
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
}

// NewPackageListModel creates a new package list model.
func NewPackageListModel(pkgs []*inspect.PackageInfo) PackageListModel {
	return PackageListModel{
		Packages: pkgs,
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Packages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Packages) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

func (m PackageListModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Installed Packages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Packages) {
		end = len(m.Packages)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		info := m.Packages[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		licenses := licenseSummary(info)
		if licenses == "" {
			licenses = "—"
		}

		rows = append(rows, []string{cursor, info.Name, info.Version, licenses})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "License").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Packages))))

	return b.String()
}

func (m PackageListModel) detailView() string {
	info := m.Packages[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(info.NameVersion()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	row := func(key, value string) {
		if value == "" {
			value = "—"
		}
		b.WriteString(keyStyle.Render(key) + " " + StyleValue.Render(value) + "\n")
	}

	row("License", licenseSummary(info))
	row("Declared", info.License)
	row("Classifiers", strings.Join(info.LicenseClassifiers, "; "))
	row("Author", info.Author)
	row("Maintainer", info.Maintainer)
	row("Homepage", info.Homepage)
	row("Summary", info.Summary)
	row("Requires", strings.Join(info.Requirements.Sorted(), ", "))

	if len(info.LicenseFiles) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("License files:"))
		b.WriteString("\n")
		for _, fc := range info.LicenseFiles {
			b.WriteString("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(fc.Path) + "\n")
		}
	}

	return b.String()
}
