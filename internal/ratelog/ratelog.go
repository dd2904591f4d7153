// Package ratelog implements the rate-limited, debug-gated logger §7 asks
// for ("Logging is rate-limited and gated on a debug flag to avoid overhead
// on the hot path"). It logs through the standard library's log package,
// the way belowdeck does everywhere else, and gates on x/time/rate's token
// bucket rather than a hand-rolled one.
package ratelog

import (
	"log"

	"golang.org/x/time/rate"
)

// Limiter gates hot-path log lines behind a debug flag and a token bucket.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a Limiter allowing up to burst log lines at once, refilling
// at perSecond lines/second thereafter.
func New(perSecond float64, burst int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Printf logs via log.Printf iff debug is set and the bucket has a token.
// Callers on the event-tap hot path call this unconditionally; the common
// case (debug off) costs one bool check.
func (l *Limiter) Printf(debug bool, format string, args ...any) {
	if !debug {
		return
	}
	if !l.limiter.Allow() {
		return
	}
	log.Printf(format, args...)
}

// Println is the no-format-string convenience form.
func (l *Limiter) Println(debug bool, args ...any) {
	if !debug {
		return
	}
	if !l.limiter.Allow() {
		return
	}
	log.Println(args...)
}
