// Package session implements the editor state machine for one open page.
//
// A Session moves between idle and running. Language and theme are
// orthogonal to the run state: they can change at any time, including while a
// run is outstanding. At most one run is in flight per session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/leapstack-labs/codepad/internal/execclient"
	"github.com/leapstack-labs/codepad/internal/language"
)

// Fixed output texts.
const (
	EmptyOutputPlaceholder = "Execution successful"
	FinishedMarker         = "\n\n=== Finished ==="
	ErrorPrefix            = "Error: "
)

// Outcome classifies the displayed output.
type Outcome int

// Outcomes.
const (
	Success Outcome = iota
	Failure
)

func (o Outcome) String() string {
	if o == Failure {
		return "error"
	}
	return "success"
}

// Executor runs source code somewhere else.
type Executor interface {
	Execute(ctx context.Context, tag language.Tag, code string) (execclient.Result, error)
}

// Ticket identifies one run request. It carries the source and language as
// they were when the run began.
type Ticket struct {
	Generation uint64
	Language   language.Tag
	Source     string
}

// Snapshot is a read-only copy of the editor state.
type Snapshot struct {
	ID            string
	Language      language.Config
	Source        string
	Output        string
	Outcome       Outcome
	Running       bool
	Dark          bool
	NoticeVisible bool
}

// Filename returns the name shown above the editing surface.
func (s Snapshot) Filename() string {
	return s.Language.Filename()
}

// Session holds the state of one editor page.
type Session struct {
	mu sync.Mutex

	id    string
	owner string

	lang          language.Tag
	source        string
	output        string
	outcome       Outcome
	dark          bool
	themeDetected bool
	noticeVisible bool

	// generation is bumped whenever a pending run's output stops being
	// wanted; inflight is the generation of the outstanding run, zero if idle.
	generation uint64
	inflight   uint64

	lastSeen time.Time
	now      func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLanguage sets the initial language.
func WithLanguage(tag language.Tag) Option {
	return func(s *Session) {
		if tag.Valid() {
			s.lang = tag
		}
	}
}

// WithOwner binds the session to a client id.
func WithOwner(owner string) Option {
	return func(s *Session) { s.owner = owner }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an idle session showing the boilerplate of the default
// language, in dark theme until DetectTheme is called.
func New(id string, opts ...Option) *Session {
	s := &Session{
		id:            id,
		lang:          language.Default,
		outcome:       Success,
		dark:          true,
		noticeVisible: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.source = language.Lookup(s.lang).Boilerplate
	s.lastSeen = s.now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Owner returns the client id the session is bound to.
func (s *Session) Owner() string { return s.owner }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:            s.id,
		Language:      language.Lookup(s.lang),
		Source:        s.source,
		Output:        s.output,
		Outcome:       s.outcome,
		Running:       s.inflight != 0,
		Dark:          s.dark,
		NoticeVisible: s.noticeVisible,
	}
}

// SelectLanguage switches language, discarding the current buffer in favour
// of the language's boilerplate. Output is cleared and any outstanding run's
// result will be dropped when it arrives.
func (s *Session) SelectLanguage(tag language.Tag) error {
	cfg, ok := language.Get(tag)
	if !ok {
		return &language.UnknownLanguageError{Name: tag.String(), Available: language.Names()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	s.lang = tag
	s.output = ""
	s.source = cfg.Boilerplate
	s.generation++
	return nil
}

// EditSource replaces the buffer verbatim. A pending run is not affected.
func (s *Session) EditSource(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.source = text
}

// BeginRun moves the session to running and returns the ticket for the
// request to send. It returns false, changing nothing, if a run is already in
// flight.
func (s *Session) BeginRun() (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.inflight != 0 {
		return Ticket{}, false
	}
	s.generation++
	s.inflight = s.generation
	s.output = ""

	return Ticket{
		Generation: s.generation,
		Language:   s.lang,
		Source:     s.source,
	}, true
}

// FinishRun returns the session to idle and records the run's result. The
// result is discarded if the session moved on since the ticket was issued;
// the return value reports whether it was applied.
func (s *Session) FinishRun(t Ticket, res execclient.Result, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.inflight == t.Generation {
		s.inflight = 0
	}
	if t.Generation != s.generation {
		return false
	}

	s.output, s.outcome = formatResult(res, err)
	return true
}

// Run executes the current buffer and blocks until the result is recorded.
// It reports false without contacting exec if a run is already in flight.
func (s *Session) Run(ctx context.Context, exec Executor) (Snapshot, bool) {
	ticket, ok := s.BeginRun()
	if !ok {
		return s.Snapshot(), false
	}

	res, err := exec.Execute(ctx, ticket.Language, ticket.Source)
	s.FinishRun(ticket, res, err)
	return s.Snapshot(), true
}

// ClearOutput empties the output pane. The run state is left alone.
func (s *Session) ClearOutput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.output = ""
}

// ToggleTheme flips between dark and light.
func (s *Session) ToggleTheme() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.dark = !s.dark
	s.themeDetected = true
}

// DetectTheme applies the client's colour-scheme preference. Only the first
// call (or a call before any toggle) has an effect.
func (s *Session) DetectTheme(prefersDark bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()

	if s.themeDetected {
		return false
	}
	s.dark = prefersDark
	s.themeDetected = true
	return true
}

// DismissNotice hides the first-visit notice for good.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.noticeVisible = false
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touchLocked() {
	s.lastSeen = s.now()
}

func formatResult(res execclient.Result, err error) (string, Outcome) {
	if err != nil {
		return ErrorPrefix + err.Error(), Failure
	}

	out := res.Output
	if out == "" {
		out = EmptyOutputPlaceholder
	}
	outcome := Success
	if res.IsError {
		outcome = Failure
	}
	return out + FinishedMarker, outcome
}
