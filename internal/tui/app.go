package tui

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Screen is the screen currently shown
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetails
)

// Vertical layout: search bar and footer take one line each
const ChromeHeight = 2

// queueSize bounds the completions waiting for the update loop
const queueSize = 64

// Services holds the loaders and URL builder the screens are built on
type Services struct {
	Movies  domain.MoviesLoader
	Details domain.MovieDetailsLoader
	Images  domain.ImageDataLoader
	URLs    service.URLBuilder

	// Optional, "o" is disabled when either is nil
	Pages   PageURLBuilder
	Browser Opener
}

// PageURLBuilder builds the web page link of a movie
type PageURLBuilder interface {
	MovieURL(id string) (*url.URL, error)
}

// Opener opens a URL outside the terminal
type Opener interface {
	Open(u *url.URL) error
}

// Options tunes the screens
type Options struct {
	Page         int
	PrefetchRows int
	PosterWidth  int
	InitialQuery string
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen   Screen
	Ready    bool
	ShowHelp bool

	services Services
	opts     Options
	queue    *ChannelQueue
	logger   *slog.Logger

	// Screens
	ListVM  *service.MoviesListViewModel
	List    *components.MovieList
	Details *components.DetailsView // nil while the list is shown

	// UI Components
	SearchInput textinput.Model
	Spinner     spinner.Model
	frame       int

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model
func NewModel(services Services, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	queue := NewChannelQueue(queueSize)
	list := components.NewMovieList(opts.PrefetchRows)

	vm := service.NewMoviesListViewModel(services.Movies, services.Images, services.URLs, queue, opts.Page, logger)
	vm.OnLoadingStateChange = list.SetLoading
	vm.OnMoviesListLoad = list.SetControllers
	vm.OnMoviesListLoadError = list.SetError

	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Prompt = "Search: "
	ti.PromptStyle = styles.SearchPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.SetValue(opts.InitialQuery)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SpinnerStyle

	return Model{
		Screen:      ScreenList,
		services:    services,
		opts:        opts,
		queue:       queue,
		logger:      logger,
		ListVM:      vm,
		List:        list,
		SearchInput: ti,
		Spinner:     sp,
	}
}

// Queue returns the main queue the view-models dispatch to
func (m Model) Queue() *ChannelQueue { return m.queue }

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		listenToQueueCmd(m.queue),
		m.Spinner.Tick,
		textinput.Blink,
	}
	if q := strings.TrimSpace(m.opts.InitialQuery); q != "" {
		cmds = append(cmds, SearchCmd(q))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case dispatchMsg:
		msg.fn()
		return m, listenToQueueCmd(m.queue)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		m.frame++
		m.List.SetFrame(m.frame, m.Spinner.View())
		if m.Details != nil {
			m.Details.SetGlyph(m.Spinner.View())
		}
		return m, cmd

	case SearchMsg:
		m.search(msg.Query)
		return m, nil

	case OpenDetailsMsg:
		m.openDetails(msg.Controller)
		return m, nil

	case CloseDetailsMsg:
		m.closeDetails()
		return m, nil

	case PageOpenedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to open movie page", "error", msg.Err)
			return m, m.setStatus("Could not open browser", true)
		}
		return m, m.setStatus("Opened "+msg.Title+" in browser", false)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Route remaining messages (cursor blink) to the focused input
	var cmd tea.Cmd
	if m.SearchInput.Focused() {
		m.SearchInput, cmd = m.SearchInput.Update(msg)
	} else if m.Screen == ScreenList {
		_, cmd = m.List.Update(msg)
	}
	return m, cmd
}

func (m *Model) search(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	m.SearchInput.SetValue(query)
	m.focusList()
	m.List.SetHighlight(query)
	m.ListVM.Search(query)
}

func (m *Model) openDetails(c *service.CellController) {
	if c == nil {
		return
	}
	if m.Details != nil {
		m.closeDetails()
	}

	vm := service.NewMovieDetailsViewModel(c.Model, m.services.Details, m.services.Images, m.services.URLs, m.queue, m.logger)
	view := components.NewDetailsView(vm, m.opts.PosterWidth)
	vm.OnChange = view.Refresh

	m.Details = view
	m.Screen = ScreenDetails
	m.SearchInput.Blur()
	m.List.SetFocused(false)
	m.updateLayout()

	m.logger.Debug("opening details", "movie", c.Model.ID, "title", c.Model.Title)
	vm.OnViewAppear()
}

func (m *Model) closeDetails() {
	if m.Details != nil {
		m.Details.ViewModel().OnViewDisappear()
	}
	m.Details = nil
	m.Screen = ScreenList
	m.List.SetFocused(true)
}

// openPage opens the web page of movie in the browser
func (m *Model) openPage(movie domain.Movie) tea.Cmd {
	if m.services.Pages == nil || m.services.Browser == nil {
		return nil
	}
	u, err := m.services.Pages.MovieURL(movie.ID)
	if err != nil {
		m.logger.Warn("no page for movie", "movie", movie.ID, "error", err)
		return m.setStatus("No page for this movie", true)
	}
	return OpenPageCmd(m.services.Browser, u, movie.Title)
}

func (m *Model) focusSearch() {
	m.List.SetFocused(false)
	m.SearchInput.Focus()
	m.SearchInput.CursorEnd()
}

func (m *Model) focusList() {
	m.SearchInput.Blur()
	m.List.SetFocused(true)
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(2 * time.Second)
}

// shutdown cancels every outstanding load and releases queued dispatchers
func (m *Model) shutdown() {
	if m.Details != nil {
		m.Details.ViewModel().OnViewDisappear()
		m.Details = nil
	}
	m.List.Close()
	m.ListVM.Close()
	m.queue.Close()
	m.logger.Info("shutting down tui")
}
