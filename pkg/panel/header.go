package panel

import "time"

// Header is the top bar holding the logo. It moves up out of view while the
// portal is open.
type Header struct {
	*Panel
}

// NewHeader creates a header in its lowered, visible position.
func NewHeader(duration time.Duration) *Header {
	return &Header{Panel: New("header", duration, true)}
}

// MoveUp raises the header out of view.
func (h *Header) MoveUp() {
	h.Hide(nil)
}

// MoveDown lowers the header back into view and calls done on arrival.
func (h *Header) MoveDown(done func()) {
	h.Show(done)
}

// Footer is the bottom button bar holding the music button.
type Footer struct {
	*Panel
}

// NewFooter creates a visible footer.
func NewFooter(duration time.Duration) *Footer {
	return &Footer{Panel: New("footer", duration, true)}
}

// Hide slides the footer out of view.
func (f *Footer) Hide() {
	f.Panel.Hide(nil)
}

// Show slides the footer back in.
func (f *Footer) Show() {
	f.Panel.Show(nil)
}
