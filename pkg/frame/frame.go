package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/wdm0006/seriesscope/pkg/errhandling"
)

// Schema describes the logical shape of a table.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name string
	Type Kind
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Numeric reports whether columns of this kind can be read as a Series.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column is a typed, nullable column.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }

// Append stores v, recording NaN as null.
func (c *FloatColumn) Append(v float64) {
	if math.IsNaN(v) {
		c.AppendNull()
		return
	}
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}

// Frame is a columnar table. Rows keep insertion order, which is the
// chronological order of the source file. One column is designated as the
// timestamp column and is never offered for processing.
type Frame struct {
	schema    Schema
	cols      []Column
	index     map[string]int // name -> col index
	nrows     int
	timestamp string
}

// NewFrame builds an empty frame. Column names must be unique. The first
// column becomes the timestamp column.
func NewFrame(s Schema) (*Frame, error) {
	s.Columns = append([]ColumnSchema(nil), s.Columns...)
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		if _, dup := f.index[cs.Name]; dup {
			return nil, errhandling.NewInputError(nil, "duplicate column name %q", cs.Name)
		}
		switch cs.Type {
		case KindInt:
			f.cols[i] = &IntColumn{name: cs.Name}
		case KindFloat:
			f.cols[i] = &FloatColumn{name: cs.Name}
		case KindString:
			f.cols[i] = &StringColumn{name: cs.Name}
		case KindTime:
			f.cols[i] = &TimeColumn{name: cs.Name}
		default:
			return nil, errhandling.NewInputError(nil, "column %q has invalid kind", cs.Name)
		}
		f.index[cs.Name] = i
	}
	if len(s.Columns) > 0 {
		f.timestamp = s.Columns[0].Name
	}
	return f, nil
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// TimestampColumn returns the name of the designated timestamp column.
func (f *Frame) TimestampColumn() string { return f.timestamp }

// SetTimestampColumn designates another existing column as the timestamp.
func (f *Frame) SetTimestampColumn(name string) error {
	if _, ok := f.index[name]; !ok {
		return errhandling.NewInputError(nil, "timestamp column %q not found", name)
	}
	f.timestamp = name
	return nil
}

// Selectable lists the numeric, non-timestamp columns in file order.
func (f *Frame) Selectable() []string {
	var out []string
	for _, cs := range f.schema.Columns {
		if cs.Name == f.timestamp || !cs.Type.Numeric() {
			continue
		}
		out = append(out, cs.Name)
	}
	return out
}

// Series reads a selectable column as a Series.
func (f *Frame) Series(name string) (Series, error) {
	if name == "" || name == f.timestamp {
		return Series{}, errhandling.NewColumnNotFoundError(name)
	}
	col, ok := f.ColumnByName(name)
	if !ok {
		return Series{}, errhandling.NewColumnNotFoundError(name)
	}
	values := make([]float64, col.Len())
	valid := make([]bool, col.Len())
	switch c := col.(type) {
	case *FloatColumn:
		for i := range values {
			values[i], valid[i] = c.Get(i)
		}
	case *IntColumn:
		for i := range values {
			v, ok := c.Get(i)
			values[i], valid[i] = float64(v), ok
		}
	default:
		return Series{}, errhandling.NewColumnNotFoundError(name)
	}
	return Series{name: name, values: values, valid: valid}, nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		}
	}
	f.nrows++
}

// WidenToFloat converts an int column to float in place, keeping its values
// and nulls. Float columns are left as they are.
func (f *Frame) WidenToFloat(name string) error {
	i, ok := f.index[name]
	if !ok {
		return errhandling.NewColumnNotFoundError(name)
	}
	switch col := f.cols[i].(type) {
	case *FloatColumn:
		return nil
	case *IntColumn:
		fc := &FloatColumn{name: name, data: make([]float64, len(col.data)), nulls: col.nulls}
		for j, v := range col.data {
			fc.data[j] = float64(v)
		}
		f.cols[i] = fc
		f.schema.Columns[i].Type = KindFloat
		return nil
	default:
		return fmt.Errorf("column %s is %s, not int", name, f.cols[i].Kind())
	}
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	switch col := f.cols[i].(type) {
	case *IntColumn:
		if v == nil {
			col.nulls[row] = true
			return nil
		}
		switch t := v.(type) {
		case int:
			col.data[row], col.nulls[row] = int64(t), false
		case int32:
			col.data[row], col.nulls[row] = int64(t), false
		case int64:
			col.data[row], col.nulls[row] = t, false
		case float64:
			col.data[row], col.nulls[row] = int64(t), false
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		if v == nil {
			col.nulls[row] = true
			return nil
		}
		var x float64
		switch t := v.(type) {
		case float32:
			x = float64(t)
		case float64:
			x = t
		case int:
			x = float64(t)
		case int32:
			x = float64(t)
		case int64:
			x = float64(t)
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
		if math.IsNaN(x) {
			col.nulls[row] = true
			return nil
		}
		col.data[row], col.nulls[row] = x, false
	case *StringColumn:
		if v == nil {
			col.nulls[row] = true
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.data[row], col.nulls[row] = s, false
	case *TimeColumn:
		if v == nil {
			col.nulls[row] = true
			return nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.data[row], col.nulls[row] = t, false
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
