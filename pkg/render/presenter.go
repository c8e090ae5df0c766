package render

import (
	"bytes"
	"fmt"
	"io"
)

// upperHalfBlock shows the top pixel as foreground and the bottom pixel as
// background, giving two vertical pixels per terminal cell.
const upperHalfBlock = "▀"

// Presenter writes framebuffers to a truecolor terminal using half blocks.
type Presenter struct {
	out io.Writer
	buf bytes.Buffer
}

// NewPresenter creates a presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// FramebufferSize returns the pixel size that fills a cols x rows terminal.
func FramebufferSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// Present encodes fb and writes it in a single write, starting at the top
// left corner of the screen.
func (p *Presenter) Present(fb *Framebuffer) error {
	p.buf.Reset()
	rows := (fb.Height + 1) / 2
	for row := range rows {
		fmt.Fprintf(&p.buf, "\x1b[%d;1H", row+1)
		var lastFG, lastBG Color
		first := true
		for x := range fb.Width {
			top := fb.GetPixel(x, row*2)
			bottom := fb.GetPixel(x, row*2+1)
			if first || top != lastFG {
				fmt.Fprintf(&p.buf, "\x1b[38;2;%d;%d;%dm", top.R, top.G, top.B)
				lastFG = top
			}
			if first || bottom != lastBG {
				fmt.Fprintf(&p.buf, "\x1b[48;2;%d;%d;%dm", bottom.R, bottom.G, bottom.B)
				lastBG = bottom
			}
			first = false
			p.buf.WriteString(upperHalfBlock)
		}
		p.buf.WriteString("\x1b[0m")
	}
	if _, err := p.out.Write(p.buf.Bytes()); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}
