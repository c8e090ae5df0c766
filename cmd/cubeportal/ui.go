package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taigrr/cubeportal/pkg/app"
)

// ANSI escape codes for the overlay.
const (
	reset     = "\x1b[0m"
	bold      = "\x1b[1m"
	dim       = "\x1b[2m"
	bgBlack   = "\x1b[40m"
	bgCard    = "\x1b[48;2;32;32;48m"
	fgWhite   = "\x1b[97m"
	fgGreen   = "\x1b[92m"
	fgYellow  = "\x1b[93m"
	fgCyan    = "\x1b[96m"
	clearLine = "\x1b[2K"
)

const (
	logoText    = " ◆ cubeportal "
	taglineText = " click a face to play "
	musicText   = " ♪ music "
	closeText   = "[x]"
	cardWidth   = 34
)

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// rect is a zero-based cell rectangle, inclusive of x0/y0 and exclusive of x1/y1.
type rect struct {
	x0, y0, x1, y1 int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// layout records where the clickable overlay elements were last drawn.
type layout struct {
	logo, music, close rect
}

// hit returns the overlay element under cell (x, y), or "".
func (l layout) hit(x, y int) string {
	switch {
	case l.logo.contains(x, y):
		return "logo"
	case l.music.contains(x, y):
		return "music"
	case l.close.contains(x, y):
		return "close"
	}
	return ""
}

// HUD tracks frame rate for the stats overlay.
type HUD struct {
	modelName string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD.
func NewHUD(modelName string, polyCount int) *HUD {
	return &HUD{
		modelName: modelName,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// drawOverlay writes the header, footer, player card and stats on top of a
// cols x rows terminal and returns the clickable layout.
func drawOverlay(w io.Writer, a *app.App, hud *HUD, cols, rows int) layout {
	var l layout
	var b strings.Builder

	// Always clear the panel rows so hidden panels disappear.
	b.WriteString(moveTo(1, 1) + clearLine)
	b.WriteString(moveTo(rows, 1) + clearLine)

	// The logo stays on screen; the rest of the header slides away while
	// the portal is open.
	logoWidth := utf8.RuneCountInString(logoText)
	if a.Header.Visible() {
		style := bgBlack + fgWhite
		if a.Header.Moving() {
			style = dim + bgBlack + fgWhite
		}
		b.WriteString(moveTo(1, logoWidth+1) + style + taglineText + reset)
	}
	logoStyle := bold + bgBlack + fgWhite
	switch {
	case a.LogoCloses():
		logoStyle = bold + bgBlack + fgYellow
	case !a.OpenersArmed():
		logoStyle = dim + bgBlack + fgWhite
	}
	b.WriteString(moveTo(1, 1) + logoStyle + logoText + reset)
	l.logo = rect{0, 0, logoWidth, 1}

	if a.Footer.Visible() {
		col := max((cols-utf8.RuneCountInString(musicText))/2, 1)
		style := bold + bgBlack + fgCyan
		if !a.OpenersArmed() {
			style = dim + bgBlack + fgCyan
		}
		b.WriteString(moveTo(rows, col) + style + musicText + reset)
		l.music = rect{col - 1, rows - 1, col - 1 + utf8.RuneCountInString(musicText), rows}
	}

	if a.Player.Panel().Visible() {
		lines := cardLines(a)
		n := int(math.Ceil(a.Player.Panel().Offset() * float64(len(lines))))
		col := max((cols-cardWidth)/2, 1)
		top := rows - n + 1
		for i := range n {
			b.WriteString(moveTo(top+i, col) + bgCard + fgWhite + lines[i] + reset)
		}
		if n > 0 {
			x := col - 1 + cardWidth - utf8.RuneCountInString(closeText) - 1
			l.close = rect{x, top - 1, x + utf8.RuneCountInString(closeText), top}
		}
	}

	if a.ShowStats {
		stage := a.Universe.Cube().Stage()
		stats := fmt.Sprintf(" %.0f FPS │ %s │ %s │ %d polys ", hud.fps, stage, hud.modelName, hud.polyCount)
		col := max(cols-utf8.RuneCountInString(stats), 1)
		b.WriteString(moveTo(1, col) + bgBlack + fgGreen + stats + reset)
	}

	_, _ = io.WriteString(w, b.String())
	return l
}

// cardLines renders the player card, one string per terminal row, each
// padded to cardWidth cells.
func cardLines(a *app.App) []string {
	title, artist, status := "nothing selected", "", ""
	if song, ok := a.Player.Current(); ok {
		title, artist = song.Title, song.Artist
		status = "❚❚ paused   (space)"
		if a.Player.Playing() {
			status = "▶ playing  (space)"
		}
	}
	lines := []string{
		pad(" now playing", cardWidth-utf8.RuneCountInString(closeText)-1) + closeText + " ",
		pad(" "+title, cardWidth),
		pad(" "+artist, cardWidth),
		pad(" "+status, cardWidth),
	}
	return lines
}

// pad truncates or pads s with spaces to exactly width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
