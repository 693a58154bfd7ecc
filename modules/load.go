package modules

import (
	"github.com/laurel-hq/laurel/modules/logging"
	"github.com/laurel-hq/laurel/modules/system"
	"github.com/laurel-hq/laurel/modules/system/services"
	"github.com/laurel-hq/laurel/pkg/application"
)

// BuiltInModules returns the modules every server instance mounts.
func BuiltInModules(menuCache services.MenuCache) []application.Module {
	return []application.Module{
		system.NewModule(&system.ModuleOptions{MenuCache: menuCache}),
		logging.NewModule(),
	}
}

func Load(app application.Application, modules ...application.Module) error {
	return application.LoadModules(app, modules...)
}
