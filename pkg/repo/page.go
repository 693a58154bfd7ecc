package repo

const DefaultPageSize = 10

type PageRequest struct {
	Page uint32 `json:"page" form:"page"`
	Size uint32 `json:"size" form:"size"`
}

func (r PageRequest) normalized() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Size < 1 {
		r.Size = DefaultPageSize
	}
	return r
}

func (r PageRequest) Offset() int {
	n := r.normalized()
	return int(n.Page-1) * int(n.Size)
}

func (r PageRequest) Limit() int {
	return int(r.normalized().Size)
}

type Page[T any] struct {
	Page  uint32 `json:"page"`
	Size  uint32 `json:"size"`
	Pages uint32 `json:"pages"`
	Total int64  `json:"total"`
	Data  []T    `json:"data"`
}

// Paginate wraps a counted listing. When total is not positive, fetch is not called.
// fetch must apply the same filter that produced total.
func Paginate[T any](req PageRequest, total int64, fetch func(offset, limit int) ([]T, error)) (*Page[T], error) {
	req = req.normalized()
	page := &Page[T]{
		Page: req.Page,
		Size: req.Size,
		Data: []T{},
	}
	if total <= 0 {
		return page, nil
	}

	size := int64(req.Size)
	page.Total = total
	page.Pages = uint32((total + size - 1) / size)

	data, err := fetch(req.Offset(), req.Limit())
	if err != nil {
		return nil, err
	}
	if data != nil {
		page.Data = data
	}
	return page, nil
}

func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	return MapPageIndexed(p, func(_ uint32, item T) U { return fn(item) })
}

// MapPageIndexed passes each row's 1-based position within the whole result set.
func MapPageIndexed[T, U any](p *Page[T], fn func(index uint32, item T) U) *Page[U] {
	out := &Page[U]{
		Page:  p.Page,
		Size:  p.Size,
		Pages: p.Pages,
		Total: p.Total,
		Data:  make([]U, 0, len(p.Data)),
	}
	first := uint32(PageRequest{Page: p.Page, Size: p.Size}.Offset()) + 1
	for i, item := range p.Data {
		out.Data = append(out.Data, fn(first+uint32(i), item))
	}
	return out
}
