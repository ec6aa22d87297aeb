// Package chunkdetail provides the single chunk view of the chunk browser.
package chunkdetail

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/piidoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// reserved is the number of rows used by the header and footer.
const reserved = 4

// View shows one chunk payload and its context in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	viewport viewport.Model

	chunk *domain.Chunk
	width int
}

// NewView creates the chunk view.
func NewView(s *styles.Styles, keys *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if keys == nil {
		keys = keymap.DefaultKeyMap()
	}
	return &View{styles: s, keys: keys, viewport: viewport.New(80, 20), width: 80}
}

// SetChunk shows c from the top.
func (v *View) SetChunk(c *domain.Chunk) {
	v.chunk = c
	v.viewport.SetContent(v.render())
	v.viewport.GotoTop()
}

// Chunk returns the chunk shown.
func (v *View) Chunk() *domain.Chunk {
	return v.chunk
}

// Update scrolls the viewport. Back returns to the chunk list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, v.keys.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewChunks}
			}
		case key.Matches(km, v.keys.Top):
			v.viewport.GotoTop()
			return v, nil
		case key.Matches(km, v.keys.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the chunk header and the viewport.
func (v *View) View() string {
	if v.chunk == nil {
		return v.styles.Muted.Render("No chunk selected")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Chunk " + v.chunk.ID))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 10), 60)))
	b.WriteString("\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %3.f%%", v.viewport.ScrollPercent()*100)))
	return b.String()
}

// render lays out the payload followed by the sorted context fields.
func (v *View) render() string {
	if v.chunk == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(v.styles.Panel.Width(max(v.width-6, 10)).Render(payloadText(v.chunk.Data)))
	b.WriteString("\n")

	ctx := v.chunk.AsMap(true)["context"]
	fields, _ := ctx.(map[string]any)
	if len(fields) == 0 {
		b.WriteString(v.styles.Muted.Render("(no context)"))
		return b.String()
	}

	b.WriteString(v.styles.Subtitle.Render("Context"))
	b.WriteString("\n")
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		b.WriteString(v.styles.ContextKey.Render(k + ":"))
		b.WriteString(" ")
		b.WriteString(contextText(fields[k]))
		b.WriteString("\n")
	}
	return b.String()
}

func payloadText(data any) string {
	switch d := data.(type) {
	case nil:
		return "(no data)"
	case string:
		return d
	default:
		return contextText(d)
	}
}

// contextText renders scalars as-is and structured values as JSON.
func contextText(value any) string {
	switch value.(type) {
	case map[string]any, []any:
		out, err := json.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(out)
	default:
		return fmt.Sprint(value)
	}
}

// SetDimensions sizes the viewport to the terminal.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.viewport.Width = width
	v.viewport.Height = max(height-reserved, 1)
	if v.chunk != nil {
		v.viewport.SetContent(v.render())
	}
}
