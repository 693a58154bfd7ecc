package mappers

import (
	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/modules/logging/presentation/viewmodels"
	"github.com/laurel-hq/laurel/pkg/constants"
)

func LoginLogToViewModel(index uint32, log *loginlog.LoginLog) *viewmodels.LoginLog {
	return &viewmodels.LoginLog{
		Index:       index,
		ID:          log.ID,
		TicketID:    log.TicketID,
		Account:     log.Account,
		LoginType:   log.LoginType,
		LoginState:  log.LoginState,
		LoginResult: log.LoginResult,
		IP:          log.IP,
		Location:    log.Location,
		Browser:     log.Browser,
		OS:          log.OS,
		Device:      log.Device,
		Cts:         log.CreatedAt.Format(constants.DateTimeLayout),
		LoginCts:    log.LoginAt.Format(constants.DateTimeLayout),
	}
}
