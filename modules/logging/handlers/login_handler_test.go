package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/eventbus"
)

type stubLogsService struct {
	created []*loginlog.LoginLog
	err     error
}

func (s *stubLogsService) Record(ctx context.Context, entry *loginlog.LoginLog) error {
	s.created = append(s.created, entry)
	return s.err
}

func newApp() application.Application {
	return application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(nil),
	})
}

func TestLoginEventsHandler_PersistsAttempts(t *testing.T) {
	app := newApp()
	stubSvc := &stubLogsService{}
	handler := NewLoginEventsHandler(app, stubSvc)
	app.EventPublisher().Subscribe(handler.onLoginAttempted)

	at := time.Now()
	app.EventPublisher().Publish(&loginlog.AttemptedEvent{
		Result: loginlog.LoginLog{
			TicketID:   "t-9",
			Account:    "alice",
			LoginType:  "password",
			LoginState: "success",
			IP:         "10.0.0.1",
			LoginAt:    at,
		},
	})

	require.Len(t, stubSvc.created, 1)
	created := stubSvc.created[0]
	require.Equal(t, "alice", created.Account)
	require.Equal(t, "10.0.0.1", created.IP)
	require.Equal(t, at, created.LoginAt)
}

func TestLoginEventsHandler_SwallowsStoreErrors(t *testing.T) {
	app := newApp()
	stubSvc := &stubLogsService{err: errors.New("db down")}
	handler := NewLoginEventsHandler(app, stubSvc)

	require.NotPanics(t, func() {
		handler.onLoginAttempted(&loginlog.AttemptedEvent{Result: loginlog.LoginLog{Account: "bob"}})
	})
	require.Len(t, stubSvc.created, 1)
}
