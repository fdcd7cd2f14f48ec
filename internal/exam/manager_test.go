package exam

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/archquiz/internal/bank"
	"github.com/mind-engage/archquiz/internal/record"
)

func TestManagerOpenReplacesSession(t *testing.T) {
	m := &Manager{
		Pool:    func() []bank.Question { return pool(20) },
		Size:    5,
		NewRand: func() Rand { return seeded(11) },
	}
	first := m.Open("guest|a")
	require.Equal(t, 5, first.Total)

	require.NoError(t, m.With("guest|a", func(s *Session) error {
		s.SelectAnswer(1)
		s.Next()
		return nil
	}))

	second := m.Open("guest|a")
	require.NotEqual(t, first.SessionID, second.SessionID)
	require.Equal(t, 0, second.Index)
	require.Zero(t, second.Answered)
	require.Equal(t, 1, m.Len())
}

func TestManagerWithUnknownClient(t *testing.T) {
	m := &Manager{}
	err := m.With("nobody", func(*Session) error { return nil })
	require.ErrorIs(t, err, ErrNoSession)
}

func TestManagerDefaultSizeAndEmptyPool(t *testing.T) {
	m := &Manager{Pool: func() []bank.Question { return pool(40) }}
	require.Equal(t, DefaultSize, m.Open("a").Total)

	empty := &Manager{}
	v := empty.Open("a")
	require.True(t, v.Empty)
}

func TestManagerClose(t *testing.T) {
	m := &Manager{Pool: func() []bank.Question { return pool(3) }}
	m.Open("a")
	require.True(t, m.Close("a"))
	require.False(t, m.Close("a"))
	require.ErrorIs(t, m.With("a", func(*Session) error { return nil }), ErrNoSession)
}

func TestManagerIdleExpiry(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	m := &Manager{
		Pool:    func() []bank.Question { return pool(3) },
		IdleTTL: time.Hour,
		Now:     func() time.Time { return now },
	}
	m.Open("a")
	m.Open("b")

	now = now.Add(30 * time.Minute)
	require.NoError(t, m.With("a", func(*Session) error { return nil }))

	now = now.Add(45 * time.Minute)
	require.ErrorIs(t, m.With("b", func(*Session) error { return nil }), ErrNoSession)

	m.Open("c")
	require.Equal(t, 2, m.Len())
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	m := &Manager{Pool: func() []bank.Question { return pool(3) }, NewRand: func() Rand { return seeded(2) }}
	m.Open("a")
	m.Open("b")
	require.NoError(t, m.With("a", func(s *Session) error {
		s.SelectAnswer(0)
		s.Finish(context.Background(), nil)
		return nil
	}))
	require.NoError(t, m.With("b", func(s *Session) error {
		require.False(t, s.Finished())
		require.Zero(t, s.Answered())
		return nil
	}))
}

func TestManagerRecordWriteDoesNotBlockOtherClients(t *testing.T) {
	m := &Manager{Pool: func() []bank.Question { return pool(3) }, NewRand: func() Rand { return seeded(5) }}
	m.Open("a")
	m.Open("b")

	writing := make(chan struct{})
	release := make(chan struct{})
	slow := record.WriterFunc(func(context.Context, record.Record) error {
		close(writing)
		<-release
		return nil
	})
	finished := make(chan error, 1)
	go func() {
		finished <- m.With("a", func(s *Session) error {
			s.Finish(context.Background(), slow)
			return nil
		})
	}()
	<-writing

	moved := make(chan error, 1)
	go func() {
		moved <- m.With("b", func(s *Session) error {
			s.Next()
			return nil
		})
	}()
	select {
	case err := <-moved:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("client b waited on client a's record write")
	}

	close(release)
	require.NoError(t, <-finished)
	require.NoError(t, m.With("a", func(s *Session) error {
		require.True(t, s.Finished())
		return nil
	}))
}
