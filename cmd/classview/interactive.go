package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/classview/classfile"
	"github.com/wippyai/classview/listing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type section int

const (
	sectionSummary section = iota
	sectionConstantPool
	sectionFields
	sectionMethods
	sectionAttributes
	sectionBytes
)

var sectionNames = []string{
	sectionSummary:      "Summary",
	sectionConstantPool: "Constant pool",
	sectionFields:       "Fields",
	sectionMethods:      "Methods",
	sectionAttributes:   "Attributes",
	sectionBytes:        "Byte map",
}

type modelState int

const (
	stateSelectSection modelState = iota
	stateSelectMember
	stateDetail
	stateFilter
)

// headerLines is the space taken by the title and help lines around the
// viewport.
const headerLines = 4

type interactiveModel struct {
	err      error
	cf       *classfile.ClassFile
	data     []byte
	filename string
	styles   listing.Styles
	view     viewport.Model
	filter   textinput.Model
	selected int // section index
	member   int
	state    modelState
	width    int
	height   int
}

func newInteractiveModel(filename string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "tag, name or #index"
	ti.Prompt = "filter: "
	ti.Width = 40
	return &interactiveModel{
		filename: filename,
		styles:   listing.DefaultStyles(),
		view:     viewport.New(80, 20),
		filter:   ti,
		state:    stateSelectSection,
	}
}

type loadedMsg struct {
	err  error
	cf   *classfile.ClassFile
	data []byte
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadClass
}

func (m *interactiveModel) loadClass() tea.Msg {
	cf, data, err := load(m.filename)
	return loadedMsg{cf: cf, data: data, err: err}
}

func (m *interactiveModel) members() []classfile.Member {
	if section(m.selected) == sectionFields {
		return m.cf.Fields
	}
	return m.cf.Methods
}

// detail renders the content of the viewport for the current selection.
func (m *interactiveModel) detail() string {
	st := m.styles
	switch section(m.selected) {
	case sectionSummary:
		return listing.Summary(m.cf, st)
	case sectionConstantPool:
		return listing.ConstantPool(m.cf.ConstantPool, m.filter.Value(), st)
	case sectionFields, sectionMethods:
		return listing.Member(&m.members()[m.member], st)
	case sectionAttributes:
		return listing.Attributes(m.cf.Attributes, "", st)
	case sectionBytes:
		return listing.Spans(m.cf, m.data, st)
	}
	return ""
}

func (m *interactiveModel) openDetail() {
	m.view.SetContent(m.detail())
	m.view.GotoTop()
	m.state = stateDetail
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-headerLines, 1)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cf, m.data = msg.cf, msg.data
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			switch m.state {
			case stateSelectSection:
				if m.selected > 0 {
					m.selected--
				}
			case stateSelectMember:
				if m.member > 0 {
					m.member--
				}
			}

		case "down", "j":
			switch m.state {
			case stateSelectSection:
				if m.selected < len(sectionNames)-1 {
					m.selected++
				}
			case stateSelectMember:
				if m.member < len(m.members())-1 {
					m.member++
				}
			}

		case "enter":
			if m.cf == nil {
				return m, nil
			}
			switch m.state {
			case stateSelectSection:
				s := section(m.selected)
				if s == sectionFields || s == sectionMethods {
					m.member = 0
					if len(m.members()) > 0 {
						m.state = stateSelectMember
					}
					return m, nil
				}
				m.openDetail()
			case stateSelectMember:
				m.openDetail()
			}
			return m, nil

		case "/":
			if m.state == stateDetail && section(m.selected) == sectionConstantPool {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "esc":
			switch m.state {
			case stateDetail:
				s := section(m.selected)
				if s == sectionFields || s == sectionMethods {
					m.state = stateSelectMember
				} else {
					m.state = stateSelectSection
				}
			case stateSelectMember:
				m.state = stateSelectSection
			}
			return m, nil
		}
	}

	if m.state == stateDetail {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
		}
		m.filter.Blur()
		m.openDetail()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.view.SetContent(m.detail())
	return m, cmd
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.cf == nil {
		return "Loading class..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Class Viewer"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(m.cf.Name())
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSection:
		for i, name := range sectionNames {
			m.writeItem(&b, name, i == m.selected)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateSelectMember:
		members := m.members()
		for i := range members {
			m.writeItem(&b, members[i].Display(), i == m.member)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • esc back • q quit"))

	case stateDetail, stateFilter:
		b.WriteString(m.view.View())
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(m.filter.View())
		} else if section(m.selected) == sectionConstantPool {
			b.WriteString(helpStyle.Render("↑/↓ scroll • / filter • esc back • q quit"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
		}
	}

	return b.String()
}

func (m *interactiveModel) writeItem(b *strings.Builder, text string, selected bool) {
	if selected {
		b.WriteString(selectedStyle.Render("> " + text))
	} else {
		b.WriteString("  " + text)
	}
	b.WriteString("\n")
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
