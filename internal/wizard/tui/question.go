package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tr064-debug/internal/prompt"
	"github.com/muurk/tr064-debug/internal/wizard"
)

// listChrome is the number of lines the list needs besides its items
// (title bar and pagination).
const listChrome = 4

// choiceItem is one entry of a select question
type choiceItem string

func (c choiceItem) FilterValue() string { return string(c) }

// choiceDelegate renders choices one per line
type choiceDelegate struct{}

func (d choiceDelegate) Height() int                             { return 1 }
func (d choiceDelegate) Spacing() int                            { return 0 }
func (d choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(choiceItem)
	if !ok {
		return
	}
	selected := index == m.Index()
	if string(c) == wizard.ChoiceBack && !selected {
		fmt.Fprint(w, NavigationItemStyle.Render(string(c)))
		return
	}
	fmt.Fprint(w, RenderMenuItem(string(c), selected))
}

// QuestionModel asks a single question. It quits once the question is
// answered or aborted.
type QuestionModel struct {
	question prompt.Question
	width    int

	list  list.Model
	input textinput.Model
	help  help.Model

	err     error
	value   string
	done    bool
	aborted bool
}

// NewQuestionModel creates the model for q
func NewQuestionModel(q prompt.Question) QuestionModel {
	m := QuestionModel{
		question: q,
		width:    MinTerminalWidth,
		help:     help.New(),
	}

	switch q.Kind {
	case prompt.KindSelect:
		m.list = newChoiceList(q, m.width)
	case prompt.KindInput, prompt.KindPassword:
		m.input = newTextInput(q)
	}
	return m
}

func newChoiceList(q prompt.Question, width int) list.Model {
	items := make([]list.Item, len(q.Choices))
	for i, c := range q.Choices {
		items[i] = choiceItem(c)
	}

	height := len(items)
	if height > MaxListHeight {
		height = MaxListHeight
	}

	l := list.New(items, choiceDelegate{}, width, height+listChrome)
	l.Title = q.Message
	l.Styles.Title = MessageStyle
	l.Styles.TitleBar = lipgloss.NewStyle().PaddingBottom(1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(len(items) > MaxListHeight)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	for i, c := range q.Choices {
		if c == q.Default {
			l.Select(i)
			break
		}
	}
	return l
}

func newTextInput(q prompt.Question) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = q.Default
	ti.PlaceholderStyle = PlaceholderStyle
	// Argument values can be whole XML documents
	ti.CharLimit = 0
	ti.Width = 40
	if q.Kind == prompt.KindPassword {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return ti
}

// Init implements tea.Model
func (m QuestionModel) Init() tea.Cmd {
	if m.question.Kind == prompt.KindInput || m.question.Kind == prompt.KindPassword {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model
func (m QuestionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = CalculateBoxWidth(size.Width)
		m.help.Width = m.width
		if m.question.Kind == prompt.KindSelect {
			m.list.SetWidth(m.width)
		}
		return m, nil
	}

	switch m.question.Kind {
	case prompt.KindSelect:
		return m.updateSelect(msg)
	case prompt.KindConfirm:
		return m.updateConfirm(msg)
	default:
		return m.updateInput(msg)
	}
}

func (m QuestionModel) updateSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		filtering := m.list.FilterState() != list.Unfiltered

		switch {
		case keyMsg.String() == "ctrl+c":
			return m.abort()
		case key.Matches(keyMsg, selectKeys.Abort) && !filtering:
			return m.abort()
		case key.Matches(keyMsg, selectKeys.Choose) && m.list.FilterState() != list.Filtering:
			item, ok := m.list.SelectedItem().(choiceItem)
			if !ok {
				return m, nil
			}
			return m.submit(string(item))
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m QuestionModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Abort):
		return m.abort()
	case key.Matches(keyMsg, confirmKeys.Yes):
		return m.submit("yes")
	case key.Matches(keyMsg, confirmKeys.No):
		return m.submit("no")
	case key.Matches(keyMsg, confirmKeys.Accept):
		return m.submit("")
	}
	return m, nil
}

func (m QuestionModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, inputKeys.Abort):
			return m.abort()
		case key.Matches(keyMsg, inputKeys.Submit):
			return m.submit(m.input.Value())
		}
		// Typing clears the last validation message
		m.err = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit resolves raw; invalid answers keep the question open
func (m QuestionModel) submit(raw string) (tea.Model, tea.Cmd) {
	value, err := prompt.Resolve(m.question, raw)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.value = value
	m.done = true
	m.err = nil
	return m, tea.Quit
}

func (m QuestionModel) abort() (tea.Model, tea.Cmd) {
	m.aborted = true
	return m, tea.Quit
}

// View implements tea.Model
func (m QuestionModel) View() string {
	q := m.question

	if m.done {
		return RenderQuestion(q.Message) + " " + AnswerStyle.Render(m.display()) + "\n"
	}
	if m.aborted {
		return RenderQuestion(q.Message) + " " + RenderSubtitle("cancelled") + "\n"
	}

	var b strings.Builder
	switch q.Kind {
	case prompt.KindSelect:
		b.WriteString(m.list.View())
		b.WriteString("\n")
		b.WriteString(RenderHelp(m.help.View(selectKeys)))
	case prompt.KindConfirm:
		hint := "(y/N)"
		if def, _ := strconv.ParseBool(q.Default); def {
			hint = "(Y/n)"
		}
		b.WriteString(RenderQuestion(q.Message) + " " + PlaceholderStyle.Render(hint))
		b.WriteString("\n")
		b.WriteString(RenderHelp(m.help.View(confirmKeys)))
	default:
		b.WriteString(RenderQuestion(q.Message) + " " + FocusedInputStyle.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(RenderHelp(m.help.View(inputKeys)))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(RenderError(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

// display is the accepted answer as echoed after the question
func (m QuestionModel) display() string {
	switch m.question.Kind {
	case prompt.KindPassword:
		if m.value == "" {
			return ""
		}
		return wizard.MaskPassword(m.value)
	case prompt.KindConfirm:
		if b, _ := strconv.ParseBool(m.value); b {
			return "Yes"
		}
		return "No"
	}
	return m.value
}

// Value returns the accepted answer
func (m QuestionModel) Value() string { return m.value }

// Done reports whether the question was answered
func (m QuestionModel) Done() bool { return m.done }

// Aborted reports whether the operator quit the question
func (m QuestionModel) Aborted() bool { return m.aborted }

// Err returns the last validation error
func (m QuestionModel) Err() error { return m.err }
