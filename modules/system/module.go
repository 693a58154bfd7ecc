package system

import (
	"time"

	"github.com/laurel-hq/laurel/modules/system/handlers"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence"
	"github.com/laurel-hq/laurel/modules/system/presentation/controllers"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
)

type ModuleOptions struct {
	// MenuCache backs the used menu tree; an in-process cache is used when nil.
	MenuCache services.MenuCache
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	menuCache := m.options.MenuCache
	if menuCache == nil {
		menuCache = services.NewMemoryMenuCache(5 * time.Minute)
	}
	app.RegisterServices(
		services.NewMenuService(persistence.NewMenuRepository(), menuCache, app.EventPublisher()),
		services.NewDictService(persistence.NewDictRepository(), persistence.NewDictValueRepository()),
		services.NewMicroServiceService(persistence.NewMicroServiceRepository()),
	)
	app.RegisterControllers(
		controllers.NewMenuController(app),
		controllers.NewDictController(app),
		controllers.NewMicroServiceController(app),
	)
	handlers.RegisterMenuEventHandlers(app)
	return nil
}

func (m *Module) Name() string {
	return "system"
}
