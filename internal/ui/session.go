package ui

import (
	"fmt"
	"strings"

	"github.com/alppdcjr12/wrap-notes-sub000/internal/blank"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/clipboard"
	apperrors "github.com/alppdcjr12/wrap-notes-sub000/internal/errors"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/models"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/render"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/service"
	"github.com/alppdcjr12/wrap-notes-sub000/internal/vocab"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"
)

const maxVisibleOptions = 8

// SessionKeyMap defines the fill session's key bindings
type SessionKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Clear  key.Binding
	Save   key.Binding
	Copy   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k SessionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Next, k.Save, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k SessionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Choose},
		{k.Next, k.Prev, k.Clear},
		{k.Save, k.Copy, k.Quit},
	}
}

var sessionKeys = SessionKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "next blank")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("Shift+Tab", "previous blank")),
	Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous option")),
	Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next option")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "fill")),
	Clear:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("Ctrl+d", "clear blank")),
	Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+s", "save")),
	Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("Ctrl+y", "copy note")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("Esc", "quit")),
}

// Session is the interactive fill screen for one note
type Session struct {
	service *service.Service
	note    *models.Note
	painter *Painter
	copier  *clipboard.Copier
	errors  *apperrors.TUIErrorHandler
	logger  *zap.Logger

	// UI components
	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	keys     SessionKeyMap

	// Focused blank and its choices
	ordinal  int
	options  []vocab.Option
	filtered []vocab.Option
	// targets holds the earlier person blanks an unbound back-reference can point at
	targets  []int
	selected int
	// confirming is set while typed free text waits for y/n
	confirming bool

	statusMsg  string
	statusType string
	dirty      bool

	width  int
	height int
}

// NewSession creates a fill session for note
func NewSession(svc *service.Service, note *models.Note, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 500
	input.Focus()

	vp := viewport.New(80, 12)
	vp.Style = lipgloss.NewStyle()

	s := &Session{
		service:  svc,
		note:     note,
		painter:  NewPainter(),
		copier:   clipboard.New(),
		errors:   apperrors.NewTUIErrorHandler(false, logger),
		logger:   logger,
		viewport: vp,
		input:    input,
		help:     help.New(),
		keys:     sessionKeys,
		width:    80,
		height:   24,
	}
	s.focus(s.nextOpen(0, 1))
	return s
}

// Note returns the note being filled
func (s *Session) Note() *models.Note {
	return s.note
}

// Dirty reports whether the note has unsaved changes
func (s *Session) Dirty() bool {
	return s.dirty
}

// Init implements tea.Model
func (s *Session) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s *Session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.help.Width = msg.Width
		s.input.Width = msg.Width - 8
		s.viewport.Width = msg.Width - 4
		s.viewport.Height = max(msg.Height-16, 3)
		s.refresh()
		return s, nil

	case tea.KeyMsg:
		if s.confirming {
			return s, s.handleConfirm(msg)
		}
		switch {
		case key.Matches(msg, s.keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.keys.Next):
			s.focus(s.step(1))
			return s, nil
		case key.Matches(msg, s.keys.Prev):
			s.focus(s.step(-1))
			return s, nil
		case key.Matches(msg, s.keys.Up):
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case key.Matches(msg, s.keys.Down):
			if s.selected < len(s.filtered)-1 {
				s.selected++
			}
			return s, nil
		case key.Matches(msg, s.keys.Choose):
			s.choose()
			return s, nil
		case key.Matches(msg, s.keys.Clear):
			if s.ordinal > 0 {
				s.note.Clear(s.ordinal)
				s.dirty = true
				s.focus(s.ordinal)
			}
			return s, nil
		case key.Matches(msg, s.keys.Save):
			s.save()
			return s, nil
		case key.Matches(msg, s.keys.Copy):
			s.copy()
			return s, nil
		}

		var cmd tea.Cmd
		before := s.input.Value()
		s.input, cmd = s.input.Update(msg)
		if s.input.Value() != before && len(s.targets) == 0 {
			s.filtered = vocab.Search(s.options, s.input.Value())
			s.selected = 0
		}
		return s, cmd
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

// focus moves to the blank at ordinal and loads its options
func (s *Session) focus(ordinal int) {
	s.ordinal = ordinal
	s.options, s.filtered, s.targets = nil, nil, nil
	s.selected = 0
	s.confirming = false
	s.input.Reset()

	if ordinal > 0 {
		b, err := s.note.BlankAt(ordinal)
		if err != nil {
			s.setError(err)
			return
		}
		if _, bound := b.Ordinal(); b.Kind.IsBackReference() && !bound {
			s.loadTargets()
		} else if options, err := s.service.Options(s.note, ordinal); err != nil {
			s.setError(err)
		} else {
			s.options = options
			s.filtered = options
		}
		if v, ok := s.note.Blanks[ordinal]; ok && b.Kind.Resolution() == blank.ResolveFreeText {
			s.input.SetValue(v.Display)
		}
		s.input.Placeholder = placeholder(b, len(s.options) > 0)
	}
	s.refresh()
}

func placeholder(b blank.Blank, hasOptions bool) string {
	switch {
	case b.Kind.IsBackReference():
		return "pick the blank this pronoun refers to"
	case b.Kind.Resolution() == blank.ResolveDerived && !hasOptions:
		return "press Enter to fill automatically"
	case hasOptions:
		return "type to search"
	default:
		return "type the text, then Enter"
	}
}

func (s *Session) loadTargets() {
	ordered, err := s.note.OrderedBlanks()
	if err != nil {
		s.setError(err)
		return
	}
	for _, ob := range ordered {
		if ob.Ordinal >= s.ordinal {
			break
		}
		if !ob.Blank.Kind.IsPerson() {
			continue
		}
		s.targets = append(s.targets, ob.Ordinal)
		s.options = append(s.options, vocab.Option{
			Display: fmt.Sprintf("#%d %s: %s", ob.Ordinal, ob.Blank.Kind.Label(), ob.Display),
		})
	}
	s.filtered = s.options
}

// choose fills the focused blank from the selected option, typed text, or derivation
func (s *Session) choose() {
	if s.ordinal == 0 {
		return
	}

	if len(s.targets) > 0 {
		target := s.targets[s.selected]
		if err := s.note.BindBackReference(s.ordinal, target); err != nil {
			s.setError(err)
			return
		}
		s.dirty = true
		if _, err := s.service.FillBlank(s.note, s.ordinal, nil); err != nil {
			s.setStatus(fmt.Sprintf("Bound to blank #%d; fill it to resolve the pronoun", target), "warning")
			s.focus(s.ordinal)
			return
		}
		s.advance()
		return
	}

	if len(s.filtered) > 0 {
		picked := vocab.StaticProvider{ByOrdinal: map[int]string{s.ordinal: s.filtered[s.selected].Display}}
		s.fill(picked)
		return
	}

	if text := strings.TrimSpace(s.input.Value()); text != "" {
		b, err := s.note.BlankAt(s.ordinal)
		if err != nil {
			s.setError(err)
			return
		}
		if err := s.note.Fill(s.ordinal, models.BlankValue{Blank: b, Display: text, Pending: true}); err != nil {
			s.setError(err)
			return
		}
		s.confirming = true
		s.dirty = true
		s.setStatus(fmt.Sprintf("Confirm %q? (y/n)", text), "info")
		s.refresh()
		return
	}

	s.fill(nil)
}

func (s *Session) fill(provider vocab.Provider) {
	if _, err := s.service.FillBlank(s.note, s.ordinal, provider); err != nil {
		s.setError(err)
		return
	}
	s.dirty = true
	s.advance()
}

func (s *Session) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y":
		v := s.note.Blanks[s.ordinal]
		v.Pending = false
		if err := s.note.Fill(s.ordinal, v); err != nil {
			s.setError(err)
			return nil
		}
		s.confirming = false
		s.advance()
	case "n":
		s.confirming = false
		text := s.input.Value()
		s.note.Clear(s.ordinal)
		s.focus(s.ordinal)
		s.input.SetValue(text)
		s.setStatus("Edit the text and press Enter", "info")
	case "ctrl+c", "esc":
		return tea.Quit
	default:
		s.setStatus("Please answer y or n.", "warning")
	}
	return nil
}

// advance moves to the next unfilled blank, or stays when the note is complete
func (s *Session) advance() {
	next := s.nextOpen(s.ordinal, 1)
	if next == 0 {
		s.setStatus("All blanks filled", "success")
		next = s.ordinal
	} else {
		s.statusMsg = ""
	}
	s.focus(next)
}

// nextOpen finds the first unfilled blank after from, wrapping around. It returns 0
// when every blank is filled.
func (s *Session) nextOpen(from, dir int) int {
	total := blank.Count(s.note.Content)
	for i := 1; i <= total; i++ {
		ordinal := (from-1+dir*i+total*2)%total + 1
		if v, ok := s.note.Blanks[ordinal]; !ok || v.Pending {
			return ordinal
		}
	}
	return 0
}

func (s *Session) step(dir int) int {
	total := blank.Count(s.note.Content)
	if total == 0 {
		return 0
	}
	if s.ordinal == 0 {
		return 1
	}
	return (s.ordinal-1+dir+total)%total + 1
}

func (s *Session) save() {
	if err := s.service.SaveNote(s.note); err != nil {
		s.setError(err)
		return
	}
	s.dirty = false
	s.setStatus("Saved", "success")
}

func (s *Session) copy() {
	text, err := s.service.Export(s.note)
	if err != nil {
		s.setError(err)
		return
	}
	msg, err := s.copier.CopyWithFallback(text)
	if err != nil {
		s.setError(err)
		return
	}
	s.setStatus(msg, "success")
}

func (s *Session) setStatus(msg, statusType string) {
	s.statusMsg = msg
	s.statusType = statusType
}

func (s *Session) setError(err error) {
	err = s.errors.HandleError(err)
	icon, _ := s.errors.GetErrorStyle(err)
	s.setStatus(icon+" "+s.errors.FormatError(err), "error")
}

// refresh re-renders the note with the focused blank highlighted
func (s *Session) refresh() {
	focus := render.NoFocus()
	if s.ordinal > 0 {
		focus = render.OnBlank(s.ordinal)
	}
	lines, err := s.service.Layout(s.note, focus)
	if err != nil {
		s.setError(err)
		return
	}
	s.viewport.SetContent(s.painter.Paint(lines))

	for i, line := range lines {
		for _, span := range line.Spans {
			if span.Class == render.HighlightedBlank {
				s.viewport.SetYOffset(max(i-s.viewport.Height/3, 0))
				return
			}
		}
	}
}

// View implements tea.Model
func (s *Session) View() string {
	var sections []string

	filled, total := s.note.Progress()
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		StyleTitle.Render(s.note.TemplateID),
		StyleMetadata.Render(fmt.Sprintf("%d/%d filled", filled, total)))
	sections = append(sections, header)
	sections = append(sections, StyleCard.Width(max(s.width-2, 20)).Render(s.viewport.View()))
	sections = append(sections, s.promptView())

	if s.statusMsg != "" {
		sections = append(sections, CreateStatus(s.statusMsg, s.statusType))
	}
	sections = append(sections, s.help.View(s.keys))
	return AddMainPadding(strings.Join(sections, "\n"))
}

func (s *Session) promptView() string {
	if s.ordinal == 0 {
		return StyleTextMuted.Render("This note has no blanks.")
	}
	b, err := s.note.BlankAt(s.ordinal)
	if err != nil {
		return CreateStatus(err.Error(), "error")
	}

	var lines []string
	lines = append(lines, StyleFormLabel.Render(fmt.Sprintf("Blank #%d · %s", s.ordinal, b.Kind.Label())))
	lines = append(lines, StyleFormHelp.Render(wordwrap.String(b.Prompt(false), max(s.width-10, 20))))
	lines = append(lines, s.input.View())

	start := 0
	if s.selected >= maxVisibleOptions {
		start = s.selected - maxVisibleOptions + 1
	}
	for i := start; i < len(s.filtered) && i < start+maxVisibleOptions; i++ {
		lines = append(lines, CreateOption(s.filtered[i].Display, i == s.selected))
	}
	if hidden := len(s.filtered) - maxVisibleOptions; hidden > 0 {
		lines = append(lines, CreateHelp(fmt.Sprintf("  %d more; type to narrow", hidden)))
	}
	return strings.Join(lines, "\n")
}

// RunSession runs the fill session full screen and returns the session once it exits
func RunSession(svc *service.Service, note *models.Note, logger *zap.Logger) (*Session, error) {
	s := NewSession(svc, note, logger)
	if _, err := tea.NewProgram(s, tea.WithAltScreen()).Run(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCommandFailed, "fill session failed")
	}
	return s, nil
}
