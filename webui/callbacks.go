package webui

// oneShot guards a callback that can either run or be cancelled. Whichever
// happens first wins and release runs exactly once.
type oneShot struct {
	done    bool
	release func()
}

// settle marks the callback finished. It reports false if it already was.
func (o *oneShot) settle() bool {
	if o.done {
		return false
	}
	o.done = true
	if o.release != nil {
		o.release()
	}
	return true
}

// overlayGate orders a deferred hide against a later show. Every show or
// hide starts a new generation; a deferred hide applies only if nothing
// happened after it was scheduled.
type overlayGate struct {
	gen uint64
}

func (g *overlayGate) show() {
	g.gen++
}

// hide starts a new generation and returns a check for use when the
// deferred hide runs.
func (g *overlayGate) hide() (current func() bool) {
	g.gen++
	gen := g.gen
	return func() bool { return g.gen == gen }
}
