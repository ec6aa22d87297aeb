// Package list provides the chunk list component of the chunk browser.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// ChunkList shows a flattened chunk stream with a cursor. Tree chunks are
// indented by level.
type ChunkList struct {
	chunks   []domain.Chunk
	selected int
	styles   *styles.Styles
	keys     *keymap.KeyMap
	width    int
	height   int
}

// NewChunkList creates an empty chunk list.
func NewChunkList(s *styles.Styles, keys *keymap.KeyMap) *ChunkList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if keys == nil {
		keys = keymap.DefaultKeyMap()
	}
	return &ChunkList{styles: s, keys: keys, width: 80, height: 10}
}

// Update moves the cursor on navigation keys.
func (l *ChunkList) Update(msg tea.Msg) (*ChunkList, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch {
	case key.Matches(km, l.keys.Up):
		l.move(-1)
	case key.Matches(km, l.keys.Down):
		l.move(1)
	case key.Matches(km, l.keys.PageUp):
		l.move(-l.visible())
	case key.Matches(km, l.keys.PageDown):
		l.move(l.visible())
	case key.Matches(km, l.keys.Top):
		l.selected = 0
	case key.Matches(km, l.keys.Bottom):
		l.selected = max(len(l.chunks)-1, 0)
	}
	return l, nil
}

func (l *ChunkList) move(delta int) {
	if len(l.chunks) == 0 {
		return
	}
	l.selected = min(max(l.selected+delta, 0), len(l.chunks)-1)
}

// visible is the number of rows that fit the height.
func (l *ChunkList) visible() int {
	return max(l.height, 1)
}

// View renders the rows around the cursor.
func (l *ChunkList) View() string {
	if len(l.chunks) == 0 {
		return l.styles.Muted.Render("No chunks")
	}

	rows := l.visible()
	start := 0
	if l.selected >= rows {
		start = l.selected - rows + 1
	}
	end := min(start+rows, len(l.chunks))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (l *ChunkList) renderRow(i int) string {
	c := l.chunks[i]
	indent := ""
	if level, ok := domain.AsInt(c.Context[domain.CtxLevel]); ok && level > 0 {
		indent = strings.Repeat("  ", level)
	}

	prefix := fmt.Sprintf("%s%s ", indent, c.ID)
	preview := Preview(c.Data, l.width-len(prefix)-4)

	if i == l.selected {
		return l.styles.Selected.Render("> " + prefix + preview)
	}
	return "  " + indent + l.styles.ChunkID.Render(c.ID) + " " + l.styles.Normal.Render(preview)
}

// Preview returns the first line of data, cut to n runes.
func Preview(data any, n int) string {
	var s string
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	s, _, _ = strings.Cut(s, "\n")

	n = max(n, 10)
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

// SetChunks replaces the list contents and resets the cursor.
func (l *ChunkList) SetChunks(chunks []domain.Chunk) {
	l.chunks = chunks
	l.selected = 0
}

// Chunks returns the list contents.
func (l *ChunkList) Chunks() []domain.Chunk {
	return l.chunks
}

// Selected returns the cursor index.
func (l *ChunkList) Selected() int {
	return l.selected
}

// SelectedChunk returns the chunk under the cursor, or nil.
func (l *ChunkList) SelectedChunk() *domain.Chunk {
	if l.selected < 0 || l.selected >= len(l.chunks) {
		return nil
	}
	return &l.chunks[l.selected]
}

// SetDimensions sets the list size in cells.
func (l *ChunkList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}
