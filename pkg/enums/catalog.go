package enums

// Option is a selectable catalog entry as exposed to clients.
type Option[K ~string] struct {
	Value K      `json:"value"`
	Label string `json:"label"`
}

// Catalog is a closed, immutable set of string-keyed variants with display labels.
type Catalog[K ~string] struct {
	options []Option[K]
	index   map[K]int
}

func NewCatalog[K ~string](options ...Option[K]) Catalog[K] {
	c := Catalog[K]{
		options: make([]Option[K], 0, len(options)),
		index:   make(map[K]int, len(options)),
	}
	for _, o := range options {
		if _, dup := c.index[o.Value]; dup {
			panic("enums: duplicate catalog key " + string(o.Value))
		}
		c.index[o.Value] = len(c.options)
		c.options = append(c.options, o)
	}
	return c
}

// Find returns the variant for key.
func (c Catalog[K]) Find(key string) (K, bool) {
	i, ok := c.index[K(key)]
	if !ok {
		var zero K
		return zero, false
	}
	return c.options[i].Value, true
}

func (c Catalog[K]) Valid(key string) bool {
	_, ok := c.index[K(key)]
	return ok
}

// Label returns the display label of key, or an empty string for unknown keys.
func (c Catalog[K]) Label(key K) string {
	if i, ok := c.index[key]; ok {
		return c.options[i].Label
	}
	return ""
}

// Options returns a copy of the catalog entries in declaration order.
func (c Catalog[K]) Options() []Option[K] {
	return append([]Option[K](nil), c.options...)
}
