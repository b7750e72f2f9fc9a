// Copyright © 2023 EcoSwell

package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	litStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00d7af")).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2)

	darkStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Foreground(lipgloss.Color("#808080")).
			Padding(0, 2)
)

// Console renders display messages as framed boxes on a terminal.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	lit bool
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) ShowMessage(text string, hint time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	style := darkStyle
	if c.lit {
		style = litStyle
	}
	fmt.Fprintln(c.out, style.Render(strings.Join(lines, "\n")))
}

func (c *Console) BacklightOn() {
	c.mu.Lock()
	c.lit = true
	c.mu.Unlock()
}

func (c *Console) BacklightOff() {
	c.mu.Lock()
	c.lit = false
	c.mu.Unlock()
}

// Lit reports whether the backlight is on.
func (c *Console) Lit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lit
}
