package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/codepad/internal/execclient"
	"github.com/leapstack-labs/codepad/internal/language"
)

// fakeExecutor answers with a fixed result, optionally blocking until release
// is closed.
type fakeExecutor struct {
	result  execclient.Result
	err     error
	release chan struct{}
	started chan struct{}

	calls   atomic.Int32
	mu      sync.Mutex
	lastTag language.Tag
	lastSrc string
}

func (f *fakeExecutor) Execute(_ context.Context, tag language.Tag, code string) (execclient.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastTag, f.lastSrc = tag, code
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func TestNew_InitialState(t *testing.T) {
	s := New("abc")
	snap := s.Snapshot()

	assert.Equal(t, "abc", snap.ID)
	assert.Equal(t, language.Python, snap.Language.Tag)
	assert.Equal(t, language.Lookup(language.Python).Boilerplate, snap.Source)
	assert.Equal(t, "main.py", snap.Filename())
	assert.Empty(t, snap.Output)
	assert.Equal(t, Success, snap.Outcome)
	assert.False(t, snap.Running)
	assert.True(t, snap.NoticeVisible)
}

func TestNew_WithLanguage(t *testing.T) {
	s := New("abc", WithLanguage(language.Rust))
	assert.Equal(t, "main.rs", s.Snapshot().Filename())

	s = New("abc", WithLanguage(language.Tag(42)))
	assert.Equal(t, language.Python, s.Snapshot().Language.Tag, "invalid tags keep the default")
}

func TestSelectLanguage_ResetsBufferAndFilename(t *testing.T) {
	for _, cfg := range language.All() {
		t.Run(cfg.Tag.String(), func(t *testing.T) {
			s := New("abc")
			s.EditSource("some unsaved edit")

			require.NoError(t, s.SelectLanguage(cfg.Tag))

			snap := s.Snapshot()
			assert.Equal(t, cfg.Boilerplate, snap.Source)
			assert.Equal(t, "main"+cfg.FileExtension, snap.Filename())
		})
	}
}

func TestSelectLanguage_DiscardsEdits(t *testing.T) {
	s := New("abc")
	s.EditSource("my precious work")

	require.NoError(t, s.SelectLanguage(language.Go))
	require.NoError(t, s.SelectLanguage(language.Python))

	assert.Equal(t, language.Lookup(language.Python).Boilerplate, s.Snapshot().Source,
		"switching back must not restore earlier edits")
}

func TestSelectLanguage_ClearsOutput(t *testing.T) {
	s := New("abc")
	_, ok := s.Run(context.Background(), &fakeExecutor{result: execclient.Result{Output: "hi"}})
	require.True(t, ok)
	require.NotEmpty(t, s.Snapshot().Output)

	require.NoError(t, s.SelectLanguage(language.PHP))
	assert.Empty(t, s.Snapshot().Output)
}

func TestSelectLanguage_Invalid(t *testing.T) {
	s := New("abc")
	s.EditSource("keep me")

	err := s.SelectLanguage(language.Tag(99))
	var unknown *language.UnknownLanguageError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "keep me", s.Snapshot().Source, "rejected switch changes nothing")
}

func TestEditSource_Verbatim(t *testing.T) {
	s := New("abc")
	text := "  line one\r\n\tline two\n\n"
	s.EditSource(text)
	assert.Equal(t, text, s.Snapshot().Source)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name        string
		result      execclient.Result
		err         error
		wantOutput  string
		wantOutcome Outcome
	}{
		{
			name:        "success",
			result:      execclient.Result{Output: "5", IsError: false},
			wantOutput:  "5\n\n=== Finished ===",
			wantOutcome: Success,
		},
		{
			name:        "empty output uses placeholder",
			result:      execclient.Result{Output: "", IsError: false},
			wantOutput:  "Execution successful\n\n=== Finished ===",
			wantOutcome: Success,
		},
		{
			name:        "execution error",
			result:      execclient.Result{Output: "NameError", IsError: true},
			wantOutput:  "NameError\n\n=== Finished ===",
			wantOutcome: Failure,
		},
		{
			name:        "transport failure",
			err:         errors.New("connection refused"),
			wantOutput:  "Error: connection refused",
			wantOutcome: Failure,
		},
		{
			name:        "server status",
			err:         &execclient.StatusError{StatusCode: 500, Status: "500 Internal Server Error"},
			wantOutput:  "Error: Server error: 500 Internal Server Error",
			wantOutcome: Failure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("abc")
			exec := &fakeExecutor{result: tt.result, err: tt.err}

			snap, ok := s.Run(context.Background(), exec)
			require.True(t, ok)

			assert.Equal(t, tt.wantOutput, snap.Output)
			assert.Equal(t, tt.wantOutcome, snap.Outcome)
			assert.False(t, snap.Running, "session returns to idle")
			assert.Equal(t, int32(1), exec.calls.Load())
		})
	}
}

func TestRun_SendsCurrentBufferAndLanguage(t *testing.T) {
	s := New("abc")
	require.NoError(t, s.SelectLanguage(language.Go))
	s.EditSource("package main\nfunc main() {}")

	exec := &fakeExecutor{}
	_, ok := s.Run(context.Background(), exec)
	require.True(t, ok)

	assert.Equal(t, language.Go, exec.lastTag)
	assert.Equal(t, "package main\nfunc main() {}", exec.lastSrc)
}

func TestRun_RejectedWhileRunning(t *testing.T) {
	s := New("abc")
	exec := &fakeExecutor{
		result:  execclient.Result{Output: "first"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}

	done := make(chan Snapshot)
	go func() {
		snap, _ := s.Run(context.Background(), exec)
		done <- snap
	}()
	<-exec.started

	before := s.Snapshot()
	require.True(t, before.Running)

	snap, ok := s.Run(context.Background(), exec)
	assert.False(t, ok)
	assert.Equal(t, before, snap, "rejected run changes nothing")
	assert.Equal(t, int32(1), exec.calls.Load(), "no second request")

	_, ok = s.BeginRun()
	assert.False(t, ok)

	close(exec.release)
	final := <-done
	assert.False(t, final.Running)
	assert.Equal(t, "first\n\n=== Finished ===", final.Output)

	_, ok = s.BeginRun()
	assert.True(t, ok, "idle again after the pending run resolves")
}

func TestRun_EditWhileRunningDoesNotCancel(t *testing.T) {
	s := New("abc")
	ticket, ok := s.BeginRun()
	require.True(t, ok)

	s.EditSource("edited meanwhile")
	assert.True(t, s.Snapshot().Running)

	applied := s.FinishRun(ticket, execclient.Result{Output: "ok"}, nil)
	assert.True(t, applied)

	snap := s.Snapshot()
	assert.Equal(t, "ok\n\n=== Finished ===", snap.Output)
	assert.Equal(t, "edited meanwhile", snap.Source)
	assert.Equal(t, language.Lookup(language.Python).Boilerplate, ticket.Source, "ticket captured the buffer at run time")
}

func TestRun_StaleResponseDiscardedAfterLanguageSwitch(t *testing.T) {
	s := New("abc")
	ticket, ok := s.BeginRun()
	require.True(t, ok)

	require.NoError(t, s.SelectLanguage(language.Rust))
	assert.True(t, s.Snapshot().Running, "language switch does not abort the run")

	applied := s.FinishRun(ticket, execclient.Result{Output: "stale python output"}, nil)
	assert.False(t, applied)

	snap := s.Snapshot()
	assert.Empty(t, snap.Output)
	assert.False(t, snap.Running)
	assert.Equal(t, language.Rust, snap.Language.Tag)
}

func TestFinishRun_UnknownTicketIgnored(t *testing.T) {
	s := New("abc")
	applied := s.FinishRun(Ticket{Generation: 77}, execclient.Result{Output: "x"}, nil)
	assert.False(t, applied)
	assert.Empty(t, s.Snapshot().Output)
}

func TestBeginRun_ClearsOutput(t *testing.T) {
	s := New("abc")
	_, _ = s.Run(context.Background(), &fakeExecutor{result: execclient.Result{Output: "old"}})

	_, ok := s.BeginRun()
	require.True(t, ok)
	assert.Empty(t, s.Snapshot().Output)
}

func TestClearOutput(t *testing.T) {
	t.Run("after success", func(t *testing.T) {
		s := New("abc")
		_, _ = s.Run(context.Background(), &fakeExecutor{result: execclient.Result{Output: "5"}})
		s.ClearOutput()
		assert.Empty(t, s.Snapshot().Output)
	})

	t.Run("after failure", func(t *testing.T) {
		s := New("abc")
		_, _ = s.Run(context.Background(), &fakeExecutor{err: errors.New("down")})
		s.ClearOutput()
		assert.Empty(t, s.Snapshot().Output)
	})

	t.Run("while running keeps run state", func(t *testing.T) {
		s := New("abc")
		_, ok := s.BeginRun()
		require.True(t, ok)
		s.ClearOutput()
		snap := s.Snapshot()
		assert.Empty(t, snap.Output)
		assert.True(t, snap.Running)
	})

	t.Run("when already empty", func(t *testing.T) {
		s := New("abc")
		s.ClearOutput()
		assert.Empty(t, s.Snapshot().Output)
	})
}

func TestToggleTheme(t *testing.T) {
	s := New("abc")
	require.NoError(t, s.SelectLanguage(language.Go))
	s.EditSource("package main")
	_, _ = s.Run(context.Background(), &fakeExecutor{result: execclient.Result{Output: "out"}})

	before := s.Snapshot()

	s.ToggleTheme()
	mid := s.Snapshot()
	assert.NotEqual(t, before.Dark, mid.Dark)

	s.ToggleTheme()
	after := s.Snapshot()
	assert.Equal(t, before, after, "two toggles restore the original state")

	assert.Equal(t, before.Language, mid.Language)
	assert.Equal(t, before.Source, mid.Source)
	assert.Equal(t, before.Output, mid.Output)
}

func TestDetectTheme_AppliesOnce(t *testing.T) {
	s := New("abc")

	assert.True(t, s.DetectTheme(false))
	assert.False(t, s.Snapshot().Dark)

	assert.False(t, s.DetectTheme(true))
	assert.False(t, s.Snapshot().Dark, "later detections are ignored")
}

func TestDetectTheme_AfterToggleIgnored(t *testing.T) {
	s := New("abc")
	s.ToggleTheme()
	assert.False(t, s.DetectTheme(true))
	assert.False(t, s.Snapshot().Dark)
}

func TestDismissNotice(t *testing.T) {
	s := New("abc")
	s.DismissNotice()
	assert.False(t, s.Snapshot().NoticeVisible)

	s.DismissNotice()
	assert.False(t, s.Snapshot().NoticeVisible)
}

func TestLastSeen_Touched(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New("abc", WithClock(func() time.Time { return now }))
	assert.Equal(t, now, s.LastSeen())

	now = now.Add(time.Minute)
	s.EditSource("x")
	assert.Equal(t, now, s.LastSeen())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Failure.String())
}
