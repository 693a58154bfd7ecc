package eventbus

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/pkg/logging"
)

type created struct{ id string }

type updated struct{ id string }

func TestPublish_NoSubscribersIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.WarnLevel)

	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *created) { t.Error("should not be called") })
	bus.Publish(&updated{id: "x"})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublish_DeliversToMatchingHandlers(t *testing.T) {
	bus := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got []string
	bus.Subscribe(func(ctx context.Context, e *created) { got = append(got, "a:"+e.id) })
	bus.Subscribe(func(ctx context.Context, e *created) error {
		got = append(got, "b:"+e.id)
		return nil
	})
	bus.Subscribe(func(ctx context.Context, e *updated) { got = append(got, "c:"+e.id) })

	bus.Publish(context.Background(), &created{id: "1"})

	require.Equal(t, []string{"a:1", "b:1"}, got)
}

func TestPublish_RecoversFromPanics(t *testing.T) {
	bus := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	called := false
	bus.Subscribe(func(e *created) { panic("boom") })
	bus.Subscribe(func(e *created) { called = true })

	require.NotPanics(t, func() { bus.Publish(&created{}) })
	require.True(t, called)
}

func TestPublishE(t *testing.T) {
	boom := errors.New("boom")

	t.Run("no subscribers", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		require.ErrorIs(t, bus.PublishE(&created{}), ErrNoSubscribers)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		bus.Subscribe(func(e *created) error { return boom })
		bus.Subscribe(func(e *created) { panic("second") })
		err := bus.PublishE(&created{})
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "panicked: second")
	})

	t.Run("rejects non-error returns", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		bus.Subscribe(func(e *created) int { return 1 })
		require.ErrorIs(t, bus.PublishE(&created{}), ErrInvalidHandlerReturn)
	})
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *created) {}, []any{&created{}}))
	require.False(t, MatchSignature(func(e *created) {}, []any{&updated{}}))
	require.False(t, MatchSignature(func(e *created) {}, []any{}))
	require.False(t, MatchSignature(func(e *created) {}, []any{&created{}, &created{}}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	require.True(t, MatchSignature(func(e *created) {}, []any{nil}))
	require.False(t, MatchSignature(func(n int) {}, []any{nil}))
	require.False(t, MatchSignature("not a func", []any{}))
}

func TestUnsubscribeAndClear(t *testing.T) {
	bus := NewEventPublisher(nil)
	first := func(e *created) {}
	bus.Subscribe(first)
	bus.Subscribe(func(e *updated) {})
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Unsubscribe(first)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}
