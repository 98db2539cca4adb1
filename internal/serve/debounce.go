package serve

import "time"

// debouncer coalesces a burst of triggers into a single timer fire. The
// timer stays idle until armed and fires exactly once per burst; arming
// again before the fire pushes the deadline out.
type debouncer struct {
	timer *time.Timer
	delay time.Duration
}

func newDebouncer(delay time.Duration) *debouncer {
	t := time.NewTimer(delay)
	if !t.Stop() {
		<-t.C
	}
	return &debouncer{timer: t, delay: delay}
}

func (d *debouncer) arm() {
	if !d.timer.Stop() {
		select {
		case <-d.timer.C:
		default:
		}
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) C() <-chan time.Time { return d.timer.C }

func (d *debouncer) stop() { d.timer.Stop() }
