package store

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore opens a store on a temp dir that is cleaned up with the
// test. Events go to a no-op emitter unless the test passes its own.
func newTestStore(t *testing.T, emitter ...EventEmitter) *Store {
	t.Helper()

	var e EventEmitter = NoopEmitter{}
	if len(emitter) > 0 {
		e = emitter[0]
	}

	s, err := New(t.TempDir(), slog.New(slog.DiscardHandler), e)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	events []any
}

func (r *recordingEmitter) Emit(event any) {
	r.events = append(r.events, event)
}

func (r *recordingEmitter) changes() []ChangeEvent {
	out := make([]ChangeEvent, 0, len(r.events))
	for _, e := range r.events {
		if ce, ok := e.(ChangeEvent); ok {
			out = append(out, ce)
		}
	}
	return out
}
