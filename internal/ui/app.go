package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perchapp/perch/internal/config"
	"github.com/perchapp/perch/internal/mutate"
	"github.com/perchapp/perch/internal/prefs"
	"github.com/perchapp/perch/internal/roost"
	"github.com/perchapp/perch/internal/state"
)

// View represents the current active screen.
type View int

const (
	ViewFeed View = iota
	ViewExplore
	ViewProfile
	ViewConnections
)

// ConnTab selects which relationship list the connections view shows.
type ConnTab int

const (
	TabFollowing ConnTab = iota
	TabFollowers
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     roost.API
	Store      *state.Store
	Controller *mutate.Controller
	Config     *config.Config
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx        context.Context
	client     roost.API
	store      *state.Store
	controller *mutate.Controller
	cfg        *config.Config
	prefsPath  string

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	snap state.Snapshot

	// loadGen stamps async loads; bumped on navigation so results for
	// abandoned screens are discarded.
	loadGen int

	// Feed state
	feedRow int

	// Explore state
	searchInput   textinput.Model
	searchFocused bool
	results       []roost.User
	resultsLabel  string
	exploreRow    int
	explorePage   int

	// Profile state
	profileUserID string
	editing       bool
	nameInput     textinput.Model
	bioInput      textinput.Model
	editFocus     int

	// Connections state
	connTab   ConnTab
	connUsers []roost.User
	connRow   int
	connPage  int

	// Compose overlay
	composing    bool
	composeInput textarea.Model

	showHelp bool
	notice   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = "Search users"
	search.CharLimit = 80
	search.Prompt = "/ "

	name := textinput.New()
	name.Placeholder = "Display name"
	name.CharLimit = roost.NameMaxLen

	bio := textinput.New()
	bio.Placeholder = "Bio"
	bio.CharLimit = roost.BioMaxLen

	compose := textarea.New()
	compose.Placeholder = "What's happening?"
	compose.CharLimit = roost.PostMaxLen
	compose.SetHeight(5)
	compose.ShowLineNumbers = false

	return Model{
		ctx:           ctx,
		client:        opts.Client,
		store:         opts.Store,
		controller:    opts.Controller,
		cfg:           opts.Config,
		prefsPath:     prefsPath,
		theme:         GetTheme(themeName),
		currentView:   ViewFeed,
		profileUserID: opts.Config.UserID,
		searchInput:   search,
		nameInput:     name,
		bioInput:      bio,
		composeInput:  compose,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.beginLoad()
	return tea.Batch(
		tea.EnterAltScreen,
		m.loadFeedCmd(),
		m.loadFollowSetCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = min(msg.Width-6, 60)
		m.composeInput.SetWidth(min(msg.Width-8, 72))
		m.nameInput.Width = min(msg.Width-10, 50)
		m.bioInput.Width = min(msg.Width-10, 60)
		m.ready = true
		return m, nil

	case snapshotMsg:
		m.snap = state.Snapshot(msg)
		m.clampFeedRow()
		return m, nil

	case feedLoadedMsg:
		if msg.gen != m.loadGen {
			return m, nil
		}
		m.store.SetLoading(false)
		if msg.err != nil {
			m.store.SetError(msg.err)
		} else {
			m.store.SetPosts(msg.posts)
		}
		m.snap = m.store.Snapshot()
		m.clampFeedRow()
		return m, nil

	case followSetMsg:
		if msg.gen != m.loadGen {
			return m, nil
		}
		if msg.err != nil {
			m.store.SetError(msg.err)
		} else {
			m.store.SetFollowing(msg.ids)
		}
		m.snap = m.store.Snapshot()
		return m, nil

	case usersLoadedMsg:
		if msg.gen != m.loadGen {
			return m, nil
		}
		m.store.SetLoading(false)
		if msg.err != nil {
			m.store.SetError(msg.err)
			m.snap = m.store.Snapshot()
			return m, nil
		}
		switch msg.dest {
		case destExplore:
			m.results = msg.users
			m.resultsLabel = msg.label
			m.exploreRow = 0
			m.explorePage = 0
		case destConnections:
			m.connUsers = msg.users
			m.connRow = 0
			m.connPage = 0
		}
		m.snap = m.store.Snapshot()
		return m, nil

	case profileLoadedMsg:
		if msg.gen != m.loadGen {
			return m, nil
		}
		m.store.SetLoading(false)
		if msg.err != nil {
			m.applyDegradedProfile(msg)
		} else {
			isSelf := msg.userID == m.cfg.UserID
			m.store.SetProfile(state.NewProfileView(msg.profile, isSelf, m.snap.IsFollowing(msg.userID)))
		}
		m.snap = m.store.Snapshot()
		return m, nil

	case profileSavedMsg:
		m.store.SetLoading(false)
		if msg.err != nil {
			m.store.SetError(msg.err)
			m.snap = m.store.Snapshot()
			return m, nil
		}
		// Server response is canonical; replace the projection wholesale.
		m.store.SetProfile(state.NewProfileView(msg.profile, true, false))
		m.snap = m.store.Snapshot()
		m.notice = "Profile updated"
		return m, nil

	case mutationMsg:
		m.snap = m.store.Snapshot()
		m.clampFeedRow()
		if msg.result.Phase == mutate.PhaseConfirmed && strings.HasPrefix(msg.result.Key, "post:") {
			m.notice = "Posted"
		}
		return m, nil
	}

	return m, nil
}

// applyDegradedProfile installs the fallback projection when a profile
// fetch fails. A missing profile degrades silently; a remote failure
// degrades and surfaces the error.
func (m *Model) applyDegradedProfile(msg profileLoadedMsg) {
	if msg.userID == m.cfg.UserID {
		m.store.SetProfile(state.DegradedProfile(m.cfg.UserID, m.cfg.Name, m.cfg.Username))
	} else {
		m.store.SetProfile(state.ProfileView{
			User:        msg.fallback,
			IsFollowing: m.snap.IsFollowing(msg.userID),
			Degraded:    true,
		})
	}
	if !errors.Is(msg.err, roost.ErrNotFound) {
		m.store.SetError(msg.err)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.composing {
		return m.renderCompose()
	}
	if m.editing {
		return m.renderProfileEdit()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderDock())
	b.WriteString("\n")

	switch m.currentView {
	case ViewFeed:
		b.WriteString(m.renderFeed())
	case ViewExplore:
		b.WriteString(m.renderExplore())
	case ViewProfile:
		b.WriteString(m.renderProfile())
	case ViewConnections:
		b.WriteString(m.renderConnections())
	}

	return b.String()
}

func (m *Model) clampFeedRow() {
	if n := len(m.snap.Posts); m.feedRow >= n {
		m.feedRow = max(n-1, 0)
	}
}

// Run starts the Bubble Tea program and forwards store updates into it.
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Store mutations fan out to the renderer as snapshot messages so
	// every subscribed view sees a consistent state per update.
	opts.Store.Subscribe(func(snap state.Snapshot) {
		go p.Send(snapshotMsg(snap))
	})

	_, err := p.Run()
	return err
}
