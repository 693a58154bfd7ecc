package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/laurel-hq/laurel/modules/system/domain/entities/dict"
	"github.com/laurel-hq/laurel/pkg/composables"
	"github.com/laurel-hq/laurel/pkg/constants"
	"github.com/laurel-hq/laurel/pkg/repo"
	"github.com/laurel-hq/laurel/pkg/serrors"
)

type CreateDictInput struct {
	DictID   string `json:"dict_id" validate:"required,max=64"`
	DictName string `json:"dict_name" validate:"required,max=64"`
	DictMark string `json:"dict_mark" validate:"max=255"`
	Weight   int32  `json:"weight"`
}

type UpdateDictInput struct {
	ID       int64   `json:"id" validate:"required"`
	DictID   *string `json:"dict_id" validate:"omitempty,max=64"`
	DictName *string `json:"dict_name" validate:"omitempty,max=64"`
	DictMark *string `json:"dict_mark" validate:"omitempty,max=255"`
	Weight   *int32  `json:"weight"`
}

type DeleteDictInput struct {
	ID     int64  `json:"id" validate:"required"`
	DictID string `json:"dict_id"`
}

type CreateDictValueInput struct {
	DictID    string `json:"dict_id" validate:"required,max=64"`
	ValueID   string `json:"value_id" validate:"required,max=64"`
	ValueName string `json:"value_name" validate:"required,max=64"`
	ValueMark string `json:"value_mark" validate:"max=255"`
	Weight    int32  `json:"weight"`
}

type DeleteDictValueInput struct {
	ID      int64  `json:"id" validate:"required"`
	ValueID string `json:"value_id"`
}

type UpdateDictValueInput struct {
	ID        int64   `json:"id" validate:"required"`
	ValueID   *string `json:"value_id" validate:"omitempty,max=64"`
	ValueName *string `json:"value_name" validate:"omitempty,max=64"`
	ValueMark *string `json:"value_mark" validate:"omitempty,max=255"`
	Weight    *int32  `json:"weight"`
}

// DictService manages dictionaries and their values. Dictionaries shipped with the
// system (type default) cannot be changed or removed.
type DictService struct {
	dicts  dict.Repository
	values dict.ValueRepository
	now    func() time.Time
}

func NewDictService(dicts dict.Repository, values dict.ValueRepository) *DictService {
	return &DictService{dicts: dicts, values: values, now: time.Now}
}

func dictNotFound(id any, cause error) *serrors.ServiceError {
	return serrors.NotFound("DICT_NOT_FOUND", fmt.Sprintf("dict %v not found", id), cause)
}

func valueNotFound(id any, cause error) *serrors.ServiceError {
	return serrors.NotFound("DICT_VALUE_NOT_FOUND", fmt.Sprintf("dict value %v not found", id), cause)
}

func (s *DictService) Page(ctx context.Context, params *dict.FindParams, req repo.PageRequest) (*repo.Page[*dict.Dict], error) {
	if params == nil {
		params = &dict.FindParams{}
	}
	page, err := composables.PageInSnapshot(ctx, req,
		func(ctx context.Context) (int64, error) { return s.dicts.Count(ctx, params) },
		func(ctx context.Context, offset, limit int) ([]*dict.Dict, error) {
			p := *params
			p.Offset, p.Limit = offset, limit
			return s.dicts.List(ctx, &p)
		},
	)
	if err != nil {
		return nil, mapError(err)
	}
	return page, nil
}

func (s *DictService) Create(ctx context.Context, in *CreateDictInput) (*dict.Dict, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	dictID := strings.TrimSpace(in.DictID)
	if _, err := s.dicts.GetByDictID(ctx, dictID); err == nil {
		return nil, serrors.Conflict("DICT_EXISTS", "dict "+dictID+" already exists")
	} else if !errors.Is(err, dict.ErrNotFound) {
		return nil, mapError(err)
	}

	now := s.now()
	d := &dict.Dict{
		DictID:    dictID,
		DictName:  strings.TrimSpace(in.DictName),
		DictMark:  in.DictMark,
		Weight:    in.Weight,
		DictType:  dict.TypeCustom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.dicts.Create(ctx, d); err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

func (s *DictService) Update(ctx context.Context, in *UpdateDictInput) (*dict.Dict, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	current, err := s.dicts.GetByID(ctx, in.ID)
	if errors.Is(err, dict.ErrNotFound) {
		return nil, dictNotFound(in.ID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if current.ReadOnly() {
		return nil, serrors.Forbidden("DICT_READ_ONLY", "dict "+current.DictID+" is built in and cannot be updated")
	}

	if in.DictID != nil {
		dictID := strings.TrimSpace(*in.DictID)
		if dictID == "" {
			return nil, serrors.BadRequest("INVALID_ARGUMENT", "dict_id must not be empty")
		}
		if dictID != current.DictID {
			owner, err := s.dicts.GetByDictID(ctx, dictID)
			switch {
			case err == nil && owner.ID != current.ID:
				return nil, serrors.Conflict("DICT_EXISTS", "dict "+dictID+" already exists")
			case err != nil && !errors.Is(err, dict.ErrNotFound):
				return nil, mapError(err)
			}
		}
		current.DictID = dictID
	}
	if in.DictName != nil {
		current.DictName = strings.TrimSpace(*in.DictName)
	}
	if in.DictMark != nil {
		current.DictMark = *in.DictMark
	}
	if in.Weight != nil {
		current.Weight = *in.Weight
	}
	current.UpdatedAt = s.now()

	if err := s.dicts.Update(ctx, current); err != nil {
		if errors.Is(err, dict.ErrNotFound) {
			return nil, dictNotFound(in.ID, err)
		}
		return nil, mapError(err)
	}
	return current, nil
}

// Delete removes a dictionary and returns it as it was before removal.
func (s *DictService) Delete(ctx context.Context, in *DeleteDictInput) (*dict.Dict, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	current, err := s.dicts.GetByID(ctx, in.ID)
	if errors.Is(err, dict.ErrNotFound) {
		return nil, dictNotFound(in.ID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if current.ReadOnly() {
		return nil, serrors.Forbidden("DICT_READ_ONLY", "dict "+current.DictID+" is built in and cannot be deleted")
	}
	if err := s.dicts.Delete(ctx, in.ID); err != nil {
		if errors.Is(err, dict.ErrNotFound) {
			return nil, dictNotFound(in.ID, err)
		}
		return nil, mapError(err)
	}
	return current, nil
}

func (s *DictService) PageValues(ctx context.Context, params *dict.ValueFindParams, req repo.PageRequest) (*repo.Page[*dict.Value], error) {
	if params == nil || strings.TrimSpace(params.DictID) == "" {
		return nil, serrors.BadRequest("DICT_ID_REQUIRED", "dict_id is required")
	}
	page, err := composables.PageInSnapshot(ctx, req,
		func(ctx context.Context) (int64, error) { return s.values.Count(ctx, params) },
		func(ctx context.Context, offset, limit int) ([]*dict.Value, error) {
			p := *params
			p.Offset, p.Limit = offset, limit
			return s.values.List(ctx, &p)
		},
	)
	if err != nil {
		return nil, mapError(err)
	}
	return page, nil
}

func (s *DictService) CreateValue(ctx context.Context, in *CreateDictValueInput) (*dict.Value, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	dictID := strings.TrimSpace(in.DictID)
	valueID := strings.TrimSpace(in.ValueID)

	if _, err := s.dicts.GetByDictID(ctx, dictID); err != nil {
		if errors.Is(err, dict.ErrNotFound) {
			return nil, serrors.Unprocessable("DICT_NOT_FOUND", "dict "+dictID+" not found", err)
		}
		return nil, mapError(err)
	}
	if _, err := s.values.GetByValueID(ctx, dictID, valueID); err == nil {
		return nil, serrors.Conflict("DICT_VALUE_EXISTS", "dict value "+dictID+"-"+valueID+" already exists")
	} else if !errors.Is(err, dict.ErrValueNotFound) {
		return nil, mapError(err)
	}

	now := s.now()
	v := &dict.Value{
		DictID:    dictID,
		ValueID:   valueID,
		ValueName: strings.TrimSpace(in.ValueName),
		ValueMark: in.ValueMark,
		Weight:    in.Weight,
		DictType:  dict.TypeCustom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.values.Create(ctx, v); err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (s *DictService) UpdateValue(ctx context.Context, in *UpdateDictValueInput) (*dict.Value, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	current, err := s.values.GetByID(ctx, in.ID)
	if errors.Is(err, dict.ErrValueNotFound) {
		return nil, valueNotFound(in.ID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if current.ReadOnly() {
		return nil, serrors.Forbidden("DICT_VALUE_READ_ONLY", "dict value "+current.ValueID+" is built in and cannot be updated")
	}

	if in.ValueID != nil {
		valueID := strings.TrimSpace(*in.ValueID)
		if valueID == "" {
			return nil, serrors.BadRequest("INVALID_ARGUMENT", "value_id must not be empty")
		}
		if valueID != current.ValueID {
			owner, err := s.values.GetByValueID(ctx, current.DictID, valueID)
			switch {
			case err == nil && owner.ID != current.ID:
				return nil, serrors.Conflict("DICT_VALUE_EXISTS", "dict value "+current.DictID+"-"+valueID+" already exists")
			case err != nil && !errors.Is(err, dict.ErrValueNotFound):
				return nil, mapError(err)
			}
		}
		current.ValueID = valueID
	}
	if in.ValueName != nil {
		current.ValueName = strings.TrimSpace(*in.ValueName)
	}
	if in.ValueMark != nil {
		current.ValueMark = *in.ValueMark
	}
	if in.Weight != nil {
		current.Weight = *in.Weight
	}
	current.UpdatedAt = s.now()

	if err := s.values.Update(ctx, current); err != nil {
		if errors.Is(err, dict.ErrValueNotFound) {
			return nil, valueNotFound(in.ID, err)
		}
		return nil, mapError(err)
	}
	return current, nil
}

func (s *DictService) DeleteValue(ctx context.Context, in *DeleteDictValueInput) (*dict.Value, error) {
	if err := constants.Validate.Struct(in); err != nil {
		return nil, serrors.Validation(err)
	}
	current, err := s.values.GetByID(ctx, in.ID)
	if errors.Is(err, dict.ErrValueNotFound) {
		return nil, valueNotFound(in.ID, err)
	}
	if err != nil {
		return nil, mapError(err)
	}
	if current.ReadOnly() {
		return nil, serrors.Forbidden("DICT_VALUE_READ_ONLY", "dict value "+current.ValueID+" is built in and cannot be deleted")
	}
	if err := s.values.Delete(ctx, in.ID); err != nil {
		if errors.Is(err, dict.ErrValueNotFound) {
			return nil, valueNotFound(in.ID, err)
		}
		return nil, mapError(err)
	}
	return current, nil
}

// Seed installs d and its values unless they already exist. Existing rows are left as
// they are; the number of inserted rows is returned.
func (s *DictService) Seed(ctx context.Context, d *dict.Dict, values []*dict.Value) (int, error) {
	inserted, err := composables.InTxResult(ctx, func(txCtx context.Context) (int, error) {
		n := 0
		now := s.now()
		if _, err := s.dicts.GetByDictID(txCtx, d.DictID); errors.Is(err, dict.ErrNotFound) {
			d.CreatedAt, d.UpdatedAt = now, now
			if err := s.dicts.Create(txCtx, d); err != nil {
				return 0, err
			}
			n++
		} else if err != nil {
			return 0, err
		}
		for _, v := range values {
			v.DictID = d.DictID
			if _, err := s.values.GetByValueID(txCtx, d.DictID, v.ValueID); errors.Is(err, dict.ErrValueNotFound) {
				v.CreatedAt, v.UpdatedAt = now, now
				if err := s.values.Create(txCtx, v); err != nil {
					return 0, err
				}
				n++
			} else if err != nil {
				return 0, err
			}
		}
		return n, nil
	})
	if err != nil {
		return 0, mapError(err)
	}
	return inserted, nil
}
