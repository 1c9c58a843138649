package importer

// coerce.go converts raw row strings into typed values, driven by the
// declarative ColumnRule tables in schema.go. A rule either yields a typed
// value, falls back to its default, or fails the row with a MissingFieldError
// or FieldFormatError naming the offending column.

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the only accepted date/time pattern for import columns.
const TimestampLayout = "2006-01-02 15:04"

// FieldKind declares how a column's raw string is interpreted.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldTimestamp
	FieldMoney
	FieldInt
	FieldCategory
)

// ColumnRule defines one column of an import type's fixed schema.
// Default is the raw fallback used when an optional column is absent or
// empty; it must itself parse under Kind.
type ColumnRule struct {
	Name     string
	Kind     FieldKind
	Required bool
	Default  string
}

// Fields holds the coerced values of one row, keyed by column name.
// Accessors return zero values for columns the schema does not define,
// so callers only read columns their own rules produced.
type Fields struct {
	values map[string]any
}

// Text returns the coerced string value for name.
func (f Fields) Text(name string) string {
	v, _ := f.values[name].(string)
	return v
}

// Time returns the coerced timestamp for name.
func (f Fields) Time(name string) time.Time {
	v, _ := f.values[name].(time.Time)
	return v
}

// Money returns the coerced decimal for name.
func (f Fields) Money(name string) decimal.Decimal {
	v, ok := f.values[name].(decimal.Decimal)
	if !ok {
		return decimal.Zero
	}
	return v
}

// Int returns the coerced integer for name.
func (f Fields) Int(name string) int {
	v, _ := f.values[name].(int)
	return v
}

// CoerceRow applies the schema's column rules to one raw row.
//
// A required column that is absent from the header, or whose cell is empty,
// fails with *MissingFieldError. An optional column falls back to its
// default. A value that does not parse under its kind fails with
// *FieldFormatError. Category values are never rejected: unknown entries
// pass through verbatim.
func CoerceRow(row Row, rules []ColumnRule) (Fields, error) {
	out := Fields{values: make(map[string]any, len(rules))}

	for _, rule := range rules {
		raw, inHeader := row[rule.Name]
		if !inHeader || raw == "" {
			if rule.Required {
				return Fields{}, &MissingFieldError{Column: rule.Name}
			}
			raw = rule.Default
		}

		switch rule.Kind {
		case FieldTimestamp:
			t, err := time.Parse(TimestampLayout, raw)
			if err != nil {
				return Fields{}, &FieldFormatError{Column: rule.Name, Value: raw}
			}
			out.values[rule.Name] = t
		case FieldMoney:
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return Fields{}, &FieldFormatError{Column: rule.Name, Value: raw}
			}
			out.values[rule.Name] = d
		case FieldInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return Fields{}, &FieldFormatError{Column: rule.Name, Value: raw}
			}
			out.values[rule.Name] = n
		default: // FieldText, FieldCategory
			out.values[rule.Name] = raw
		}
	}

	return out, nil
}
