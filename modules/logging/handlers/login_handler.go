package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/modules/logging/services"
	"github.com/laurel-hq/laurel/pkg/application"
	"github.com/laurel-hq/laurel/pkg/composables"
)

type loginRecorder interface {
	Record(ctx context.Context, entry *loginlog.LoginLog) error
}

type LoginEventsHandler struct {
	app     application.Application
	service loginRecorder
	logger  *logrus.Logger
}

func NewLoginEventsHandler(app application.Application, service loginRecorder) *LoginEventsHandler {
	return &LoginEventsHandler{
		app:     app,
		service: service,
		logger:  app.Logger(),
	}
}

func RegisterLoginEventHandlers(app application.Application) {
	handler := NewLoginEventsHandler(app, app.Service(services.LogsService{}).(*services.LogsService))
	app.EventPublisher().Subscribe(handler.onLoginAttempted)
}

func (h *LoginEventsHandler) onLoginAttempted(event *loginlog.AttemptedEvent) {
	if h.service == nil || event == nil {
		return
	}

	ctx := context.Background()
	if pool := h.app.DB(); pool != nil {
		ctx = composables.WithPool(ctx, pool)
	}

	entry := event.Result
	if err := h.service.Record(ctx, &entry); err != nil {
		h.logger.WithError(err).
			WithField("account", entry.Account).
			WithField("ticket_id", entry.TicketID).
			Warn("failed to persist login log")
	}
}
