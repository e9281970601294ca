package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/library"
	"github.com/abhisek/masterreview/internal/screen"
	"github.com/abhisek/masterreview/internal/screens/nav"
	"github.com/abhisek/masterreview/internal/ui/components"
	"github.com/abhisek/masterreview/internal/ui/layout"
)

const (
	defineTimeout  = 30 * time.Second
	focusCharLimit = 120
)

// Status lines shown under the lesson.
const (
	statusSaved          = "✓ Saved"
	statusOffline        = "No AI provider is configured. Only saved lessons can be opened."
	statusNoVisual       = "This section has no visual aid."
	statusVisualsMissing = "Visual aids need a Gemini API key."
	statusVisualBusy     = "Generating visual aid..."
)

type definition struct {
	term    string
	text    string
	loading bool
}

// LessonScreen loads and presents one unit's lesson section by section.
type LessonScreen struct {
	deps *nav.Deps
	unit curriculum.Unit

	loading bool
	seq     int
	spinner spinner.Model
	errText string

	lesson      *lessons.Lesson
	highlighter *lessons.Highlighter
	saved       bool
	focus       string

	section       int
	terms         []string
	term          int
	showSolutions bool
	showHints     bool
	showAnswers   bool
	glossary      bool

	popup    *definition
	focusing bool
	input    components.TextInput

	visuals    map[int]string
	visualBusy bool
	status     string

	vp viewport.Model
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.InputCapturer = (*LessonScreen)(nil)

// New creates the viewer for unit. When saved is non-nil it is shown
// directly, otherwise the lesson is opened through the library.
func New(deps *nav.Deps, unit curriculum.Unit, saved *lessons.Lesson) *LessonScreen {
	s := &LessonScreen{
		deps:    deps,
		unit:    unit,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		term:    -1,
		visuals: make(map[int]string),
		vp:      viewport.New(),
	}
	if saved != nil {
		s.setLesson(saved, true)
	} else {
		s.loading = true
	}
	return s
}

func (s *LessonScreen) Init() tea.Cmd {
	if !s.loading {
		return nil
	}
	return tea.Batch(s.spinner.Tick, s.load(""))
}

func (s *LessonScreen) Title() string {
	return fmt.Sprintf("%s · Q%d %s", s.unit.Subject.Name, s.unit.Quarter, s.unit.Week.Name)
}

// CapturesInput is true while the focus prompt or a definition is open.
func (s *LessonScreen) CapturesInput() bool {
	return s.focusing || s.popup != nil
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.focusing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Regenerate"},
			{Key: "Esc", Description: "Cancel"},
		}
	case s.popup != nil:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Close"},
		}
	case s.loading:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	case s.lesson == nil:
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Section"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Tab/d", Description: "Term/Define"},
		{Key: "Enter/h/a", Description: "Solution/Hint/Answer"},
		{Key: "s", Description: "Save"},
		{Key: "r", Description: "Refocus"},
		{Key: "v", Description: "Visual"},
		{Key: "g", Description: "Glossary"},
		{Key: "[ ]", Description: "Subject"},
	}
}

// Lesson returns the lesson being shown, or nil while loading.
func (s *LessonScreen) Lesson() *lessons.Lesson {
	return s.lesson
}

// Section returns the index of the visible section.
func (s *LessonScreen) Section() int {
	return s.section
}

// Terms returns the key terms highlighted in the visible section.
func (s *LessonScreen) Terms() []string {
	return s.terms
}

func (s *LessonScreen) load(focus string) tea.Cmd {
	s.seq++
	seq := s.seq
	deps, unit := s.deps, s.unit
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		res, err := deps.Library.Open(ctx, unit, focus)
		return loadedMsg{seq: seq, result: res, err: err}
	}
}

func (s *LessonScreen) reload(focus string) tea.Cmd {
	s.focus = focus
	s.loading = true
	s.errText = ""
	s.status = ""
	s.popup = nil
	return tea.Batch(s.spinner.Tick, s.load(focus))
}

func (s *LessonScreen) setLesson(l *lessons.Lesson, saved bool) {
	s.lesson = l
	s.highlighter = lessons.NewHighlighter(l.KeyTerms)
	s.saved = saved
	s.section = 0
	s.visuals = make(map[int]string)
	s.enterSection()
}

// enterSection resets the per-section state and recomputes which key
// terms the section highlights.
func (s *LessonScreen) enterSection() {
	s.showSolutions = false
	s.showHints = false
	s.showAnswers = false
	s.popup = nil
	s.term = -1
	s.terms = nil
	s.vp.SetYOffset(0)

	s.collectTerms()
}

// collectTerms recomputes the highlighted terms of the current section
// from the texts that are visible. The selected term is kept when it is
// still highlighted.
func (s *LessonScreen) collectTerms() {
	selected := ""
	if s.term >= 0 && s.term < len(s.terms) {
		selected = s.terms[s.term]
	}
	s.term = -1
	s.terms = nil

	sec, ok := s.currentSection()
	if !ok {
		return
	}
	s.highlighter.Reset()
	for _, text := range highlightedTexts(sec, s.revealed()) {
		for _, seg := range s.highlighter.Segments(text) {
			if seg.Highlight {
				if seg.Term == selected {
					s.term = len(s.terms)
				}
				s.terms = append(s.terms, seg.Term)
			}
		}
	}
}

func (s *LessonScreen) currentSection() (lessons.Section, bool) {
	if s.lesson == nil || s.section < 0 || s.section >= len(s.lesson.Sections) {
		return lessons.Section{}, false
	}
	return s.lesson.Sections[s.section], true
}

// reveal records which collapsible parts of a section are shown.
type reveal struct {
	solutions bool
	hints     bool
	answers   bool
}

func (s *LessonScreen) revealed() reveal {
	return reveal{solutions: s.showSolutions, hints: s.showHints, answers: s.showAnswers}
}

// highlightedTexts lists the visible texts of a section that carry term
// highlights, in display order.
func highlightedTexts(sec lessons.Section, r reveal) []string {
	var out []string
	for _, b := range sec.Blocks {
		switch b.Kind {
		case lessons.KindParagraph:
			out = append(out, b.Text)
		case lessons.KindExample:
			if b.Example == nil {
				continue
			}
			out = append(out, b.Example.Problem)
			if r.solutions {
				out = append(out, b.Example.Solution, b.Example.Reasoning)
			}
		case lessons.KindQuestion:
			if b.Question == nil {
				continue
			}
			out = append(out, b.Question.Question)
			if r.hints {
				out = append(out, b.Question.Hint)
			}
			if r.answers && b.Question.Answer != "" {
				answer, rationale := lessons.SplitRationale(b.Question.Answer)
				out = append(out, answer, rationale)
			}
		}
	}
	return out
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case loadedMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.deps.Logger().Warn("lesson load failed", zap.String("key", s.unit.Key()), zap.Error(msg.err))
			text := lessons.GenerationFailedMessage
			if errors.Is(msg.err, library.ErrOffline) {
				text = statusOffline
			}
			if s.lesson != nil {
				s.status = text
			} else {
				s.errText = text
			}
			return s, nil
		}
		s.setLesson(msg.result.Lesson, msg.result.FromCache)
		return s, nil

	case definedMsg:
		if s.popup == nil || s.popup.term != msg.term {
			return s, nil
		}
		s.popup.loading = false
		if msg.err != nil {
			s.popup.text = lessons.DefinitionTimeoutMessage
		} else {
			s.popup.text = msg.definition
		}
		return s, nil

	case savedMsg:
		if msg.err != nil {
			s.status = "Save failed: " + msg.err.Error()
			return s, nil
		}
		s.saved = true
		s.status = statusSaved
		return s, nav.Cmd(nav.SavedChangedMsg{})

	case visualMsg:
		s.visualBusy = false
		switch {
		case errors.Is(msg.err, lessons.ErrVisualsUnavailable):
			s.status = statusVisualsMissing
		case msg.err != nil:
			s.status = "Visual failed: " + msg.err.Error()
		default:
			s.visuals[msg.section] = msg.path
			s.status = "Visual saved to " + msg.path
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.focusing {
		switch key {
		case "esc":
			s.focusing = false
			return s, nil
		case "enter":
			s.focusing = false
			return s, s.reload(s.input.Value())
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if s.popup != nil {
		switch key {
		case "esc", "enter", "d":
			s.popup = nil
			return s, nil
		}
		s.popup = nil
	}

	if s.loading {
		return s, nil
	}
	if s.lesson == nil {
		if key == "r" {
			return s, s.reload(s.focus)
		}
		return s, nil
	}

	switch key {
	case "right", "l", "n":
		if s.section < len(s.lesson.Sections)-1 {
			s.section++
			s.enterSection()
		}
	case "left", "p":
		if s.section > 0 {
			s.section--
			s.enterSection()
		}
	case "down", "j":
		s.vp.ScrollDown(1)
	case "up", "k":
		s.vp.ScrollUp(1)
	case "pgdown", "space":
		s.vp.PageDown()
	case "pgup":
		s.vp.PageUp()
	case "enter":
		s.showSolutions = !s.showSolutions
		s.collectTerms()
	case "h":
		s.showHints = !s.showHints
		s.collectTerms()
	case "a":
		s.showAnswers = !s.showAnswers
		s.collectTerms()
	case "g":
		s.glossary = !s.glossary
		s.vp.SetYOffset(0)
	case "tab":
		if len(s.terms) > 0 {
			s.term = (s.term + 1) % len(s.terms)
		}
	case "shift+tab":
		if len(s.terms) > 0 {
			s.term = (s.term - 1 + len(s.terms)) % len(s.terms)
		}
	case "d":
		return s, s.define()
	case "s":
		return s, s.save()
	case "r":
		if !s.deps.Library.Online() {
			s.status = statusOffline
			return s, nil
		}
		s.focusing = true
		s.input = components.NewTextInput("Topic to emphasize (leave empty for the standard lesson)", focusCharLimit, 60)
		s.input.SetValue(s.focus)
		return s, s.input.Init()
	case "[":
		return s, s.sibling(true)
	case "]":
		return s, s.sibling(false)
	case "v":
		return s, s.visual()
	}
	return s, nil
}

func (s *LessonScreen) define() tea.Cmd {
	if s.term < 0 || s.term >= len(s.terms) {
		return nil
	}
	term := s.terms[s.term]
	svc := s.deps.Lessons
	if svc == nil {
		s.popup = &definition{term: term, text: statusOffline}
		return nil
	}
	sec, _ := s.currentSection()
	lessonContext := strings.Join(sec.Paragraphs(), " ")
	s.popup = &definition{term: term, loading: true}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), defineTimeout)
		defer cancel()
		def, err := svc.DefineTerm(ctx, term, lessonContext)
		return definedMsg{term: term, definition: def, err: err}
	}
}

func (s *LessonScreen) save() tea.Cmd {
	deps, unit, l := s.deps, s.unit, s.lesson
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		_, err := deps.Library.Save(ctx, unit, l)
		return savedMsg{err: err}
	}
}

func (s *LessonScreen) sibling(prev bool) tea.Cmd {
	before, after := s.deps.Catalog.Siblings(s.unit.Track.ID, s.unit.Subject.ID)
	target := after
	if prev {
		target = before
	}
	if target == nil {
		return nil
	}
	return nav.Cmd(nav.SiblingMsg{TrackID: s.unit.Track.ID, SubjectID: target.ID})
}

func (s *LessonScreen) visual() tea.Cmd {
	if s.visualBusy {
		return nil
	}
	sec, ok := s.currentSection()
	if !ok {
		return nil
	}
	if strings.TrimSpace(sec.VisualAidDescription) == "" {
		s.status = statusNoVisual
		return nil
	}
	svc := s.deps.Lessons
	if svc == nil || !svc.HasVisuals() {
		s.status = statusVisualsMissing
		return nil
	}
	s.visualBusy = true
	s.status = statusVisualBusy
	deps, key, index, desc := s.deps, s.unit.Key(), s.section, sec.VisualAidDescription
	return func() tea.Msg {
		ctx, cancel := deps.Context()
		defer cancel()
		v, err := svc.GenerateVisual(ctx, desc)
		if err != nil {
			return visualMsg{section: index, err: err}
		}
		path, err := library.WriteVisual(deps.VisualsDir, key, index, v)
		return visualMsg{section: index, path: path, err: err}
	}
}
