package persistence

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/modules/logging/infrastructure/persistence/models"
)

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toDBLoginLog(log *loginlog.LoginLog) *models.LoginLog {
	return &models.LoginLog{
		ID:          log.ID,
		TicketID:    log.TicketID,
		Account:     log.Account,
		LoginType:   log.LoginType,
		LoginState:  log.LoginState,
		LoginResult: optionalText(log.LoginResult),
		IP:          optionalText(log.IP),
		Location:    optionalText(log.Location),
		Browser:     optionalText(log.Browser),
		OS:          optionalText(log.OS),
		Device:      optionalText(log.Device),
		Cts:         log.CreatedAt,
		LoginCts:    log.LoginAt,
	}
}

func toDomainLoginLog(row *models.LoginLog) *loginlog.LoginLog {
	return &loginlog.LoginLog{
		ID:          row.ID,
		TicketID:    row.TicketID,
		Account:     row.Account,
		LoginType:   row.LoginType,
		LoginState:  row.LoginState,
		LoginResult: row.LoginResult.String,
		IP:          row.IP.String,
		Location:    row.Location.String,
		Browser:     row.Browser.String,
		OS:          row.OS.String,
		Device:      row.Device.String,
		CreatedAt:   row.Cts,
		LoginAt:     row.LoginCts,
	}
}
