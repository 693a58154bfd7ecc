package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/laurel-hq/laurel/modules/system/domain/aggregates/menu"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
)

type usedTreeInvalidator interface {
	InvalidateUsedTree(ctx context.Context, appID, reason string) error
}

// MenuEventsHandler keeps the used-menu cache in step with menu writes.
type MenuEventsHandler struct {
	menus  usedTreeInvalidator
	logger *logrus.Logger
}

func NewMenuEventsHandler(app application.Application, menus usedTreeInvalidator) *MenuEventsHandler {
	return &MenuEventsHandler{menus: menus, logger: app.Logger()}
}

func RegisterMenuEventHandlers(app application.Application) {
	handler := NewMenuEventsHandler(app, app.Service(services.MenuService{}).(*services.MenuService))
	app.EventPublisher().Subscribe(handler.onMenuCreated)
	app.EventPublisher().Subscribe(handler.onMenuUpdated)
}

func (h *MenuEventsHandler) onMenuCreated(event *menu.CreatedEvent) {
	h.invalidate(event.AppID, "menu_created")
}

func (h *MenuEventsHandler) onMenuUpdated(event *menu.UpdatedEvent) {
	reason := "menu_updated"
	if event.Reparented() {
		reason = "menu_reparented"
	}
	h.invalidate(event.AppID, reason)
}

func (h *MenuEventsHandler) invalidate(appID, reason string) {
	if err := h.menus.InvalidateUsedTree(context.Background(), appID, reason); err != nil {
		h.logger.WithError(err).
			WithField("app_id", appID).
			Warn("failed to invalidate used menu cache")
	}
}
