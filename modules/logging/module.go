package logging

import (
	"github.com/laurel-hq/laurel/modules/logging/handlers"
	"github.com/laurel-hq/laurel/modules/logging/infrastructure/persistence"
	"github.com/laurel-hq/laurel/modules/logging/presentation/controllers"
	"github.com/laurel-hq/laurel/modules/logging/services"
	"github.com/laurel-hq/laurel/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewLogsService(persistence.NewLoginLogRepository()),
	)
	app.RegisterControllers(
		controllers.NewLogsController(app),
		controllers.NewInterfaceController(app),
	)
	handlers.RegisterLoginEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
