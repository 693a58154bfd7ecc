package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/laurel-hq/laurel/modules/logging/domain/entities/loginlog"
	"github.com/laurel-hq/laurel/modules/logging/infrastructure/persistence/models"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/repo"
)

const loginLogColumns = `id, ticket_id, account, login_type, login_state, login_result, ip, location, browser, os, device, cts, login_cts`

type LoginLogRepository struct{}

func NewLoginLogRepository() loginlog.Repository {
	return &LoginLogRepository{}
}

// Login logs are global: they are filtered but never scoped to an app.
func buildLoginLogFilter(params *loginlog.FindParams) *repo.Filter {
	f := repo.Unscoped()
	if params == nil {
		return f
	}
	return f.
		ILike("account", params.Account).
		ILike("ip", params.IP).
		Eq("login_state", params.LoginState).
		Range("login_cts", params.LoginFrom, params.LoginTo)
}

func (r *LoginLogRepository) List(ctx context.Context, params *loginlog.FindParams) ([]*loginlog.LoginLog, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	f := buildLoginLogFilter(params)
	query := `SELECT ` + loginLogColumns + ` FROM login_log` + f.Where() + ` ORDER BY id DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, errors.Wrap(err, "query login logs")
	}
	defer rows.Close()

	results := make([]*loginlog.LoginLog, 0)
	for rows.Next() {
		var row models.LoginLog
		if err := rows.Scan(
			&row.ID, &row.TicketID, &row.Account, &row.LoginType, &row.LoginState, &row.LoginResult,
			&row.IP, &row.Location, &row.Browser, &row.OS, &row.Device, &row.Cts, &row.LoginCts,
		); err != nil {
			return nil, errors.Wrap(err, "scan login log")
		}
		results = append(results, toDomainLoginLog(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *LoginLogRepository) Count(ctx context.Context, params *loginlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f := buildLoginLogFilter(params)

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM login_log`+f.Where(), f.Args()...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count login logs")
	}
	return count, nil
}

func (r *LoginLogRepository) Create(ctx context.Context, log *loginlog.LoginLog) error {
	if log == nil {
		return loginlog.ErrInvalid
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	if log.LoginAt.IsZero() {
		log.LoginAt = log.CreatedAt
	}
	row := toDBLoginLog(log)

	if err := tx.QueryRow(ctx, `
		INSERT INTO login_log (ticket_id, account, login_type, login_state, login_result, ip, location, browser, os, device, cts, login_cts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		row.TicketID, row.Account, row.LoginType, row.LoginState, row.LoginResult,
		row.IP, row.Location, row.Browser, row.OS, row.Device, row.Cts, row.LoginCts,
	).Scan(&log.ID); err != nil {
		return errors.Wrap(err, "insert login log")
	}
	return nil
}
