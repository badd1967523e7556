package rest

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// typeProbe pairs a type tag with an extractor attempted against a
// scanned column value.
type typeProbe struct {
	tag     string
	extract func(v any, fd pgconn.FieldDescription) (any, bool)
}

// typeProbes lists candidate types in decode order. The order is a
// documented contract, not an implementation detail: the first
// extractor that succeeds wins, so reordering changes how
// type-ambiguous values decode. Integers are probed before the text
// fallback so an integer column always yields a JSON number, and
// decimals render as their exact text form rather than a lossy JSON
// number.
var typeProbes = []typeProbe{
	{"int32", extractInt32},
	{"int64", extractInt64},
	{"float64", extractFloat64},
	{"float32", extractFloat32},
	{"decimal", extractDecimal},
	{"text", extractText},
	{"bool", extractBool},
	{"date", extractDate},
	{"datetime", extractDateTime},
}

// decodeRows converts every result row into a JSON-encodable map keyed
// by column name as reported by the result set. Duplicate column names
// overwrite earlier entries; the later column wins.
func decodeRows(rows pgx.Rows) ([]map[string]any, error) {
	fds := rows.FieldDescriptions()

	result := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]any, len(fds))
		for i, fd := range fds {
			row[fd.Name] = decodeValue(values[i], fd)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// decodeValue resolves a single column value by probing the candidate
// types in order, falling back to null when none match.
func decodeValue(v any, fd pgconn.FieldDescription) any {
	if v == nil {
		return nil
	}
	for _, probe := range typeProbes {
		if decoded, ok := probe.extract(v, fd); ok {
			return decoded
		}
	}
	return nil
}

func extractInt32(v any, _ pgconn.FieldDescription) (any, bool) {
	// smallint and integer columns both fit 32 bits
	switch n := v.(type) {
	case int16:
		return int32(n), true
	case int32:
		return n, true
	}
	return nil, false
}

func extractInt64(v any, _ pgconn.FieldDescription) (any, bool) {
	if n, ok := v.(int64); ok {
		return n, true
	}
	return nil, false
}

func extractFloat64(v any, _ pgconn.FieldDescription) (any, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	return nil, false
}

func extractFloat32(v any, _ pgconn.FieldDescription) (any, bool) {
	if f, ok := v.(float32); ok {
		return f, true
	}
	return nil, false
}

// extractDecimal renders numeric columns as their canonical decimal
// text, never as a JSON number, to preserve exact digits. The stored
// scale is kept: numeric(12,2) value 1500.50 renders as "1500.50",
// not "1500.5".
func extractDecimal(v any, _ pgconn.FieldDescription) (any, bool) {
	n, ok := v.(pgtype.Numeric)
	if !ok || !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return nil, false
	}
	d := decimal.NewFromBigInt(n.Int, n.Exp)
	if n.Exp < 0 {
		return d.StringFixed(-n.Exp), true
	}
	return d.String(), true
}

func extractText(v any, _ pgconn.FieldDescription) (any, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	return nil, false
}

func extractBool(v any, _ pgconn.FieldDescription) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	return nil, false
}

// extractDate matches date columns only; timestamps also scan as
// time.Time, so the column OID disambiguates.
func extractDate(v any, fd pgconn.FieldDescription) (any, bool) {
	t, ok := v.(time.Time)
	if !ok || fd.DataTypeOID != pgtype.DateOID {
		return nil, false
	}
	return t.Format("2006-01-02"), true
}

func extractDateTime(v any, fd pgconn.FieldDescription) (any, bool) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, false
	}
	switch fd.DataTypeOID {
	case pgtype.TimestampOID:
		return t.Format("2006-01-02 15:04:05.999999"), true
	case pgtype.TimestamptzOID:
		return t.Format(time.RFC3339Nano), true
	}
	return nil, false
}
