package tui

import (
	"context"
	"strings"
	"time"

	"roadmap_backend/internal/client"
	"roadmap_backend/internal/study"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

type screen int

const (
	screenLanding screen = iota
	screenLoading
	screenError
	screenRoadmap
	screenStudy
)

// Fetcher loads one roadmap document per call.
type Fetcher interface {
	Fetch(ctx context.Context, topic string) (*client.Roadmap, error)
}

type exampleTopic struct {
	Key   string
	Label string
}

var exampleTopics = []exampleTopic{
	{Key: "react", Label: "React"},
	{Key: "java", Label: "Java"},
	{Key: "node", Label: "Node.js"},
	{Key: "python", Label: "Python"},
	{Key: "kubernetes", Label: "Kubernetes"},
}

// roadmapMsg 携带发起时的序号，序号过期的结果直接丢弃
type roadmapMsg struct {
	seq     uint64
	roadmap *client.Roadmap
	err     error
}

type celebrationDoneMsg struct {
	seq uint64
}

type Options struct {
	// InitialTopic skips the landing screen.
	InitialTopic string
	// Renderer renders overview and lesson markdown; nil uses a plain style.
	Renderer *glamour.TermRenderer
	// Logger receives setup problems; nil discards them.
	Logger *zap.Logger
}

var newPlainRenderer = func() (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStylePath("notty"),
		glamour.WithWordWrap(80),
	)
}

type Model struct {
	fetcher  Fetcher
	store    study.KVStore
	renderer *glamour.TermRenderer
	keys     keyMap

	screen  screen
	name    string
	input   textinput.Model
	spinner spinner.Model
	example int

	topic     string
	searchSeq uint64
	cancel    context.CancelFunc
	err       error

	session *study.Session
	width   int
}

func New(fetcher Fetcher, store study.KVStore, opt Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search a topic, e.g. kubernetes"
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}

	renderer := opt.Renderer
	if renderer == nil {
		var err error
		if renderer, err = newPlainRenderer(); err != nil {
			// 渲染器不可用时 View 直接输出原始 markdown
			log.Warn("Markdown renderer unavailable", zap.Error(err))
			renderer = nil
		}
	}

	m := Model{
		fetcher:  fetcher,
		store:    store,
		renderer: renderer,
		keys:     defaultKeys(),
		input:    ti,
		spinner:  sp,
		example:  -1,
		screen:   screenLanding,
	}

	if store != nil {
		if name, ok, err := store.Get(study.DisplayNameKey); err == nil && ok {
			m.name = name
		}
	}

	if t := strings.TrimSpace(opt.InitialTopic); t != "" {
		m.input.SetValue(t)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if t := strings.TrimSpace(m.input.Value()); t != "" && m.screen == screenLanding {
		return func() tea.Msg { return searchRequestMsg{topic: t} }
	}
	return textinput.Blink
}

// searchRequestMsg 由 Init 发出，用于带初始主题启动
type searchRequestMsg struct {
	topic string
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case searchRequestMsg:
		return m.startSearch(msg.topic)

	case roadmapMsg:
		if msg.seq != m.searchSeq || m.screen != screenLoading {
			return m, nil
		}
		m.cancel = nil
		if msg.err != nil {
			m.err = msg.err
			m.screen = screenError
			return m, nil
		}
		doc := msg.roadmap.Document
		m.session = study.NewSession(&doc)
		m.screen = screenRoadmap
		return m, nil

	case celebrationDoneMsg:
		if m.session != nil {
			m.session.ClearCelebration(msg.seq)
		}
		return m, nil

	case spinner.TickMsg:
		if m.screen != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.stopSearch()
			return m, tea.Quit
		}
		switch m.screen {
		case screenLanding:
			return m.updateLanding(msg)
		case screenLoading:
			return m.updateLoading(msg)
		case screenError:
			return m.updateError(msg)
		case screenRoadmap:
			return m.updateRoadmap(msg)
		case screenStudy:
			return m.updateStudy(msg)
		}
	}

	if m.screen == screenLanding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		return m.startSearch(m.input.Value())
	case key.Matches(msg, m.keys.Example):
		m.example = (m.example + 1) % len(exampleTopics)
		m.input.SetValue(exampleTopics[m.example].Key)
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.stopSearch()
		m.screen = screenLanding
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), msg.Type == tea.KeyEnter:
		m.err = nil
		m.screen = screenLanding
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateRoadmap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.session = nil
		m.screen = screenLanding
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Start):
		m.session.Start()
		m.screen = screenStudy
	}
	return m, nil
}

func (m Model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		s.Exit()
		m.screen = screenRoadmap
	case key.Matches(msg, m.keys.Prev):
		s.PrevLesson()
	case key.Matches(msg, m.keys.Next):
		if s.AtLastLesson() {
			seq := s.CompleteStage()
			return m, tea.Tick(study.CelebrationDelay, func(time.Time) tea.Msg {
				return celebrationDoneMsg{seq: seq}
			})
		}
		s.NextLesson()
	case key.Matches(msg, m.keys.PrevStage):
		s.SelectStage(s.Stage - 1)
	case key.Matches(msg, m.keys.NextStage):
		s.SelectStage(s.Stage + 1)
	case len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		s.SelectStage(int(msg.Runes[0] - '1'))
	}
	return m, nil
}

func (m Model) startSearch(raw string) (tea.Model, tea.Cmd) {
	topic := strings.TrimSpace(raw)
	if topic == "" {
		return m, nil
	}

	m.stopSearch()
	m.searchSeq++
	seq := m.searchSeq
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.topic = topic
	m.err = nil
	m.session = nil
	m.screen = screenLoading

	fetcher := m.fetcher
	fetch := func() tea.Msg {
		rm, err := fetcher.Fetch(ctx, topic)
		return roadmapMsg{seq: seq, roadmap: rm, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, fetch)
}

func (m *Model) stopSearch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(fetcher Fetcher, store study.KVStore, opt Options) error {
	p := tea.NewProgram(New(fetcher, store, opt), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.stopSearch()
	}
	return err
}
