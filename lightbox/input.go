package lightbox

// Key names as reported by KeyboardEvent.key.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Key handles a key press and reports whether it was consumed. Keys are
// ignored while the lightbox is closed.
func (lb *Lightbox) Key(key string) bool {
	if !lb.phase.IsOpen() {
		return false
	}
	switch key {
	case KeyEscape:
		lb.Close()
		return true
	case KeyArrowLeft:
		if lb.navigation {
			lb.GoTo(lb.index-1, 0)
			return true
		}
	case KeyArrowRight:
		if lb.navigation {
			lb.GoTo(lb.index+1, 0)
			return true
		}
	}
	return false
}
