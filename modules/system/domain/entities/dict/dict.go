package dict

import (
	"context"
	"time"

	"github.com/laurel-hq/laurel/pkg/enums"
)

type Type string

const (
	TypeCustom Type = "custom"
	// TypeDefault marks dictionaries shipped with the system; they are read-only.
	TypeDefault Type = "default"
)

var Types = enums.NewCatalog(
	enums.Option[Type]{Value: TypeCustom, Label: "Custom"},
	enums.Option[Type]{Value: TypeDefault, Label: "Default"},
)

type Dict struct {
	ID        int64
	DictID    string
	DictName  string
	DictMark  string
	Weight    int32
	DictType  Type
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d *Dict) ReadOnly() bool {
	return d.DictType == TypeDefault
}

type Value struct {
	ID        int64
	DictID    string
	ValueID   string
	ValueName string
	ValueMark string
	Weight    int32
	DictType  Type
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *Value) ReadOnly() bool {
	return v.DictType == TypeDefault
}

type FindParams struct {
	DictID   string
	DictName string
	Limit    int
	Offset   int
}

type ValueFindParams struct {
	DictID    string
	ValueID   string
	ValueName string
	Limit     int
	Offset    int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Dict, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*Dict, error)
	GetByDictID(ctx context.Context, dictID string) (*Dict, error)
	Create(ctx context.Context, d *Dict) error
	Update(ctx context.Context, d *Dict) error
	Delete(ctx context.Context, id int64) error
}

type ValueRepository interface {
	List(ctx context.Context, params *ValueFindParams) ([]*Value, error)
	Count(ctx context.Context, params *ValueFindParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*Value, error)
	GetByValueID(ctx context.Context, dictID, valueID string) (*Value, error)
	Create(ctx context.Context, v *Value) error
	Update(ctx context.Context, v *Value) error
	Delete(ctx context.Context, id int64) error
}
