package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/microservice"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence/models"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/repo"
)

const microServiceColumns = `id, app_id, service_id, service_name, service_entry, mount_point, route_pattern,
		service_status, cts, uts`

type MicroServiceRepository struct{}

func NewMicroServiceRepository() microservice.Repository {
	return &MicroServiceRepository{}
}

func (r *MicroServiceRepository) filter(ctx context.Context, params *microservice.FindParams) (*repo.Filter, error) {
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		return nil, err
	}
	f := repo.Scoped("app_id", appID)
	if params == nil {
		return f, nil
	}
	return f.ILike("service_name", params.ServiceName).Eq("service_status", params.Status), nil
}

func (r *MicroServiceRepository) List(ctx context.Context, params *microservice.FindParams) ([]*microservice.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	f, err := r.filter(ctx, params)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + microServiceColumns + ` FROM fe_micro_service` + f.Where() + ` ORDER BY id DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	rows, err := tx.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, gerrors.Wrap(err, "query micro services")
	}
	defer rows.Close()

	result := make([]*microservice.Service, 0)
	for rows.Next() {
		var row models.FeMicroService
		if err := scanMicroService(rows, &row); err != nil {
			return nil, gerrors.Wrap(err, "scan micro service")
		}
		result = append(result, toDomainMicroService(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MicroServiceRepository) Count(ctx context.Context, params *microservice.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f, err := r.filter(ctx, params)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM fe_micro_service`+f.Where(), f.Args()...).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "count micro services")
	}
	return count, nil
}

func (r *MicroServiceRepository) GetByServiceID(ctx context.Context, serviceID string) (*microservice.Service, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	appID, err := composables.UseAppID(ctx)
	if err != nil {
		return nil, err
	}
	var row models.FeMicroService
	err = scanMicroService(tx.QueryRow(ctx,
		`SELECT `+microServiceColumns+` FROM fe_micro_service WHERE app_id = $1 AND service_id = $2`,
		appID, serviceID,
	), &row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, microservice.ErrNotFound
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "get micro service")
	}
	return toDomainMicroService(&row), nil
}

func (r *MicroServiceRepository) Create(ctx context.Context, s *microservice.Service) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBMicroService(s)
	if err := tx.QueryRow(ctx, `
		INSERT INTO fe_micro_service (app_id, service_id, service_name, service_entry, mount_point,
			route_pattern, service_status, cts, uts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		row.AppID, row.ServiceID, row.ServiceName, row.ServiceEntry, row.MountPoint,
		row.RoutePattern, row.ServiceStatus, row.Cts, row.Uts,
	).Scan(&s.ID); err != nil {
		return gerrors.Wrap(err, "insert micro service")
	}
	return nil
}

func (r *MicroServiceRepository) Update(ctx context.Context, s *microservice.Service) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBMicroService(s)
	tag, err := tx.Exec(ctx, `
		UPDATE fe_micro_service SET service_name = $3, service_entry = $4, mount_point = $5,
			route_pattern = $6, service_status = $7, uts = $8
		WHERE app_id = $1 AND service_id = $2`,
		row.AppID, row.ServiceID, row.ServiceName, row.ServiceEntry, row.MountPoint,
		row.RoutePattern, row.ServiceStatus, row.Uts,
	)
	if err != nil {
		return gerrors.Wrap(err, "update micro service")
	}
	if tag.RowsAffected() == 0 {
		return microservice.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMicroService(s scanner, row *models.FeMicroService) error {
	return s.Scan(
		&row.ID, &row.AppID, &row.ServiceID, &row.ServiceName, &row.ServiceEntry,
		&row.MountPoint, &row.RoutePattern, &row.ServiceStatus, &row.Cts, &row.Uts,
	)
}
