package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/modules/system/infrastructure/persistence/models"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/repo"
)

const (
	dictColumns      = `id, dict_id, dict_name, dict_mark, weight, dict_type, cts, uts`
	dictValueColumns = `id, dict_id, value_id, value_name, value_mark, weight, dict_type, cts, uts`
)

type DictRepository struct{}

func NewDictRepository() dict.Repository {
	return &DictRepository{}
}

func buildDictFilter(params *dict.FindParams) *repo.Filter {
	f := repo.Unscoped()
	if params == nil {
		return f
	}
	return f.Eq("dict_id", params.DictID).Eq("dict_name", params.DictName)
}

func (r *DictRepository) List(ctx context.Context, params *dict.FindParams) ([]*dict.Dict, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	f := buildDictFilter(params)
	query := `SELECT ` + dictColumns + ` FROM dict` + f.Where() + ` ORDER BY id DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	rows, err := tx.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, gerrors.Wrap(err, "query dicts")
	}
	defer rows.Close()

	result := make([]*dict.Dict, 0)
	for rows.Next() {
		var row models.Dict
		if err := rows.Scan(&row.ID, &row.DictID, &row.DictName, &row.DictMark, &row.Weight, &row.DictType, &row.Cts, &row.Uts); err != nil {
			return nil, gerrors.Wrap(err, "scan dict")
		}
		result = append(result, toDomainDict(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DictRepository) Count(ctx context.Context, params *dict.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f := buildDictFilter(params)
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM dict`+f.Where(), f.Args()...).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "count dicts")
	}
	return count, nil
}

func (r *DictRepository) GetByID(ctx context.Context, id int64) (*dict.Dict, error) {
	return r.getOne(ctx, `SELECT `+dictColumns+` FROM dict WHERE id = $1`, id)
}

func (r *DictRepository) GetByDictID(ctx context.Context, dictID string) (*dict.Dict, error) {
	return r.getOne(ctx, `SELECT `+dictColumns+` FROM dict WHERE dict_id = $1`, dictID)
}

func (r *DictRepository) getOne(ctx context.Context, query string, arg any) (*dict.Dict, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var row models.Dict
	err = tx.QueryRow(ctx, query, arg).
		Scan(&row.ID, &row.DictID, &row.DictName, &row.DictMark, &row.Weight, &row.DictType, &row.Cts, &row.Uts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, dict.ErrNotFound
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "get dict")
	}
	return toDomainDict(&row), nil
}

func (r *DictRepository) Create(ctx context.Context, d *dict.Dict) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBDict(d)
	if err := tx.QueryRow(ctx, `
		INSERT INTO dict (dict_id, dict_name, dict_mark, weight, dict_type, cts, uts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		row.DictID, row.DictName, row.DictMark, row.Weight, row.DictType, row.Cts, row.Uts,
	).Scan(&d.ID); err != nil {
		return gerrors.Wrap(err, "insert dict")
	}
	return nil
}

func (r *DictRepository) Update(ctx context.Context, d *dict.Dict) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBDict(d)
	tag, err := tx.Exec(ctx, `
		UPDATE dict SET dict_id = $2, dict_name = $3, dict_mark = $4, weight = $5, uts = $6
		WHERE id = $1`,
		row.ID, row.DictID, row.DictName, row.DictMark, row.Weight, row.Uts,
	)
	if err != nil {
		return gerrors.Wrap(err, "update dict")
	}
	if tag.RowsAffected() == 0 {
		return dict.ErrNotFound
	}
	return nil
}

func (r *DictRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, `DELETE FROM dict WHERE id = $1`, id, dict.ErrNotFound)
}

type DictValueRepository struct{}

func NewDictValueRepository() dict.ValueRepository {
	return &DictValueRepository{}
}

func buildDictValueFilter(params *dict.ValueFindParams) *repo.Filter {
	dictID := ""
	if params != nil {
		dictID = params.DictID
	}
	f := repo.Scoped("dict_id", dictID)
	if params == nil {
		return f
	}
	return f.Eq("value_id", params.ValueID).Eq("value_name", params.ValueName)
}

func (r *DictValueRepository) List(ctx context.Context, params *dict.ValueFindParams) ([]*dict.Value, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	f := buildDictValueFilter(params)
	query := `SELECT ` + dictValueColumns + ` FROM dict_value` + f.Where() + ` ORDER BY id ASC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}
	rows, err := tx.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, gerrors.Wrap(err, "query dict values")
	}
	defer rows.Close()

	result := make([]*dict.Value, 0)
	for rows.Next() {
		var row models.DictValue
		if err := rows.Scan(
			&row.ID, &row.DictID, &row.ValueID, &row.ValueName, &row.ValueMark,
			&row.Weight, &row.DictType, &row.Cts, &row.Uts,
		); err != nil {
			return nil, gerrors.Wrap(err, "scan dict value")
		}
		result = append(result, toDomainDictValue(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DictValueRepository) Count(ctx context.Context, params *dict.ValueFindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	f := buildDictValueFilter(params)
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM dict_value`+f.Where(), f.Args()...).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "count dict values")
	}
	return count, nil
}

func (r *DictValueRepository) GetByID(ctx context.Context, id int64) (*dict.Value, error) {
	return r.getOne(ctx, `SELECT `+dictValueColumns+` FROM dict_value WHERE id = $1`, id)
}

func (r *DictValueRepository) GetByValueID(ctx context.Context, dictID, valueID string) (*dict.Value, error) {
	return r.getOne(ctx, `SELECT `+dictValueColumns+` FROM dict_value WHERE dict_id = $1 AND value_id = $2`, dictID, valueID)
}

func (r *DictValueRepository) getOne(ctx context.Context, query string, args ...any) (*dict.Value, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var row models.DictValue
	err = tx.QueryRow(ctx, query, args...).Scan(
		&row.ID, &row.DictID, &row.ValueID, &row.ValueName, &row.ValueMark,
		&row.Weight, &row.DictType, &row.Cts, &row.Uts,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, dict.ErrValueNotFound
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "get dict value")
	}
	return toDomainDictValue(&row), nil
}

func (r *DictValueRepository) Create(ctx context.Context, v *dict.Value) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBDictValue(v)
	if err := tx.QueryRow(ctx, `
		INSERT INTO dict_value (dict_id, value_id, value_name, value_mark, weight, dict_type, cts, uts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		row.DictID, row.ValueID, row.ValueName, row.ValueMark, row.Weight, row.DictType, row.Cts, row.Uts,
	).Scan(&v.ID); err != nil {
		return gerrors.Wrap(err, "insert dict value")
	}
	return nil
}

func (r *DictValueRepository) Update(ctx context.Context, v *dict.Value) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	row := toDBDictValue(v)
	tag, err := tx.Exec(ctx, `
		UPDATE dict_value SET value_id = $2, value_name = $3, value_mark = $4, weight = $5, uts = $6
		WHERE id = $1`,
		row.ID, row.ValueID, row.ValueName, row.ValueMark, row.Weight, row.Uts,
	)
	if err != nil {
		return gerrors.Wrap(err, "update dict value")
	}
	if tag.RowsAffected() == 0 {
		return dict.ErrValueNotFound
	}
	return nil
}

func (r *DictValueRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, `DELETE FROM dict_value WHERE id = $1`, id, dict.ErrValueNotFound)
}

func deleteByID(ctx context.Context, query string, id int64, notFound error) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return gerrors.Wrap(err, "delete")
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
