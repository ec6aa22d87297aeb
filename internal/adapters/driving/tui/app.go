package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/views/chunkdetail"
	"github.com/custodia-labs/piidoc/internal/core/ports/driving"
)

// listReserved is the number of rows around the chunk list.
const listReserved = 5

// App is the chunk browser, following the Elm architecture.
type App struct {
	ports  *Ports
	source Source
	ctx    context.Context

	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model

	chunkList  *list.ChunkList
	detailView *chunkdetail.View

	currentView messages.ViewType
	title       string
	loading     bool
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a browser for source.
func NewApp(ports *Ports, source Source) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if source.Stored && ports.Store == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingStoreService)
	}
	if !source.Stored && ports.Document == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingService)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()
	return &App{
		ports:       ports,
		source:      source,
		ctx:         context.Background(),
		styles:      s,
		keys:        keys,
		help:        help.New(),
		chunkList:   list.NewChunkList(s, keys),
		detailView:  chunkdetail.NewView(s, keys),
		currentView: messages.ViewChunks,
		title:       source.Path,
		loading:     true,
	}, nil
}

// WithContext sets the context chunk loading runs under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts loading the chunks.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("piidoc - "+a.source.Path),
		a.loadChunks(),
	)
}

// loadChunks returns a command reading the chunks of the source.
func (a *App) loadChunks() tea.Cmd {
	ctx, src, ports := a.ctx, a.source, a.ports
	return func() tea.Msg {
		if src.Stored {
			chunks, err := ports.Store.Chunks(ctx, src.Path)
			return messages.ChunksLoaded{Title: src.Path, Chunks: chunks, Err: err}
		}

		doc, err := ports.Document.Open(ctx, src.Path, driving.OpenOptions{WithContext: true})
		if err != nil {
			return messages.ChunksLoaded{Title: src.Path, Err: err}
		}
		title := fmt.Sprintf("%s (%s %s)", src.Path, doc.Type(), doc.ID())
		return messages.ChunksLoaded{Title: title, Chunks: slices.Collect(doc.IterFull(true))}
	}
}

// Update handles messages and routes keys to the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.ChunksLoaded:
		a.loading = false
		a.err = msg.Err
		a.title = msg.Title
		a.chunkList.SetChunks(msg.Chunks)
		return a, nil

	case messages.ChunkSelected:
		chunks := a.chunkList.Chunks()
		if msg.Index >= 0 && msg.Index < len(chunks) {
			a.detailView.SetChunk(&chunks[msg.Index])
			a.currentView = messages.ViewChunkDetail
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewChunks:
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.Help):
				a.currentView = messages.ViewHelp
				return a, nil
			case key.Matches(msg, a.keys.Select):
				index := a.chunkList.Selected()
				return a, func() tea.Msg { return messages.ChunkSelected{Index: index} }
			}
			a.chunkList, cmd = a.chunkList.Update(msg)
			return a, cmd

		case messages.ViewChunkDetail:
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			if key.Matches(msg, a.keys.Back, a.keys.Help) {
				a.currentView = messages.ViewChunks
			}
			return a, nil
		}
	}

	if a.currentView == messages.ViewChunkDetail {
		a.detailView, cmd = a.detailView.Update(msg)
	}
	return a, cmd
}

// View renders the active view.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChunkDetail:
		return a.detailView.View() + "\n" + a.styles.Help.Render(a.help.ShortHelpView(a.keys.ShortHelp()))
	case messages.ViewHelp:
		a.help.ShowAll = true
		out := a.styles.Title.Render("Help") + "\n\n" + a.help.View(a.keys)
		a.help.ShowAll = false
		return out
	default:
		return a.viewChunks()
	}
}

func (a *App) viewChunks() string {
	header := a.styles.Title.Render(a.title)
	switch {
	case a.loading:
		return header + "\n\n" + a.styles.Muted.Render("Loading chunks...")
	case a.err != nil:
		return header + "\n\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}

	count := a.styles.Muted.Render(fmt.Sprintf("%d chunks", len(a.chunkList.Chunks())))
	return header + "\n" + count + "\n\n" + a.chunkList.View() + "\n\n" + a.help.View(a.keys)
}

// Run starts the browser and blocks until it quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the loading error, if any.
func (a *App) Err() error {
	return a.err
}

// SetDimensions sets the terminal size on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.chunkList.SetDimensions(width, max(height-listReserved, 1))
	a.detailView.SetDimensions(width, height-1)
}
