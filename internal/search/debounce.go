// Package search keeps a search input, a delayed commit and the current route
// consistent: typing updates the value immediately, and once input pauses the
// trimmed term is written into the route.
package search

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
)

type Options struct {
	Delay      time.Duration
	MinLength  int
	Param      string
	SearchPath string
	HomePath   string
}

func DefaultOptions() Options {
	return Options{
		Delay:      500 * time.Millisecond,
		MinLength:  domain.MinQueryLength,
		Param:      "q",
		SearchPath: "/search",
		HomePath:   "/",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Delay <= 0 {
		o.Delay = def.Delay
	}
	if o.MinLength <= 0 {
		o.MinLength = def.MinLength
	}
	if o.Param == "" {
		o.Param = def.Param
	}
	if o.SearchPath == "" {
		o.SearchPath = def.SearchPath
	}
	if o.HomePath == "" {
		o.HomePath = def.HomePath
	}
	return o
}

// Synchronizer owns the input value, the route and one pending commit timer.
type Synchronizer struct {
	opts     Options
	onChange func(Route)

	mu    sync.Mutex
	value string
	route Route
	timer *time.Timer
	// seq invalidates a timer that fired while being replaced.
	seq uint64
}

// New starts from route; the value is seeded from its query param. onChange
// runs on the timer goroutine whenever a commit changes the route.
func New(route Route, opts Options, onChange func(Route)) *Synchronizer {
	opts = opts.withDefaults()
	route = route.clone()
	return &Synchronizer{
		opts:     opts,
		onChange: onChange,
		value:    route.Query.Get(opts.Param),
		route:    route,
	}
}

// SetValue records new input and restarts the commit timer.
func (s *Synchronizer) SetValue(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.schedule()
}

// Sync adopts a route changed from outside (back/forward navigation, a typed
// URL). The value follows the route's param.
func (s *Synchronizer) Sync(route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = route.clone()
	s.value = s.route.Query.Get(s.opts.Param)
	s.schedule()
}

func (s *Synchronizer) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *Synchronizer) Route() Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route.clone()
}

// Flush commits the current value now instead of waiting for the timer.
func (s *Synchronizer) Flush() {
	s.mu.Lock()
	s.cancel()
	next, changed := s.commitLocked()
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(next)
	}
}

// Stop drops any pending commit.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
}

// schedule replaces the pending timer. s.mu must be held.
func (s *Synchronizer) schedule() {
	s.cancel()
	seq := s.seq
	s.timer = time.AfterFunc(s.opts.Delay, func() { s.fire(seq) })
}

// cancel stops the pending timer. s.mu must be held.
func (s *Synchronizer) cancel() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Synchronizer) fire(seq uint64) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	next, changed := s.commitLocked()
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(next)
	}
}

// commitLocked writes the trimmed value into the route. s.mu must be held.
func (s *Synchronizer) commitLocked() (Route, bool) {
	term := strings.TrimSpace(s.value)
	next := s.route.clone()

	if utf8.RuneCountInString(term) < s.opts.MinLength {
		next.Query.Del(s.opts.Param)
		if next.Path == s.opts.SearchPath {
			next = Route{Path: s.opts.HomePath, Query: nil}
		}
	} else {
		next.Query.Set(s.opts.Param, term)
		next.Path = s.opts.SearchPath
	}

	if next.Equal(s.route) {
		return Route{}, false
	}
	s.route = next
	return next.clone(), true
}
