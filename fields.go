package pack

import (
	"reflect"
	"strings"
	"sync"
)

// field is one entry of a struct's field-descriptor table.
type field struct {
	index int
	name  string
	typ   reflect.Type
}

type fieldsCache struct {
	cmap sync.Map // reflect.Type -> []field
}

var structFields fieldsCache

// Get returns the serialized fields of a struct type in declaration order.
// Unexported fields and fields tagged `pack:"-"` are left out.
func (fc *fieldsCache) Get(t reflect.Type) []field {
	if t.Kind() != reflect.Struct {
		return nil
	}

	if m, ok := fc.cmap.Load(t); ok {
		return m.([]field)
	}

	var fields []field

	l := t.NumField()
	for i := 0; i < l; i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(sf.Tag.Get("pack"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		fields = append(fields, field{index: i, name: name, typ: sf.Type})
	}

	m, _ := fc.cmap.LoadOrStore(t, fields)
	return m.([]field)
}
