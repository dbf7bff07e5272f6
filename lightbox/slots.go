package lightbox

// Phase is the lifecycle state of a Lightbox.
type Phase int

const (
	// Closed means the overlay is hidden.
	Closed Phase = iota
	// OpenStatic means the overlay is visible with the track at rest.
	OpenStatic
	// OpenDragging means a drag gesture is being tracked.
	OpenDragging
	// OpenAnimating means a slide animation is in flight and a reset is pending.
	OpenAnimating
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case OpenStatic:
		return "open"
	case OpenDragging:
		return "dragging"
	case OpenAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// IsOpen reports whether the phase has the overlay visible.
func (p Phase) IsOpen() bool {
	return p != Closed
}

// Wrap normalises index into [0, n). It returns 0 when n <= 0.
func Wrap(index, n int) int {
	if n <= 0 {
		return 0
	}
	index %= n
	if index < 0 {
		index += n
	}
	return index
}

// Slots returns the previous, current and next indices for index in a
// collection of length n.
func Slots(index, n int) (prev, current, next int) {
	current = Wrap(index, n)
	return Wrap(current-1, n), current, Wrap(current+1, n)
}

// Item is one image shown in the lightbox.
type Item struct {
	Src     string
	Caption string
}
