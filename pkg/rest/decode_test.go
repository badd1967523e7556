package rest

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fd(name string, oid uint32) pgconn.FieldDescription {
	return pgconn.FieldDescription{Name: name, DataTypeOID: oid}
}

func TestDecodeValueIntegers(t *testing.T) {
	// integer columns always decode as JSON numbers, never strings
	assert.Equal(t, int32(42), decodeValue(int32(42), fd("n", pgtype.Int4OID)))
	assert.Equal(t, int32(7), decodeValue(int16(7), fd("n", pgtype.Int2OID)))
	assert.Equal(t, int64(1<<40), decodeValue(int64(1<<40), fd("n", pgtype.Int8OID)))
}

func TestDecodeValueFloats(t *testing.T) {
	assert.Equal(t, 3.25, decodeValue(3.25, fd("f", pgtype.Float8OID)))
	assert.Equal(t, float32(1.5), decodeValue(float32(1.5), fd("f", pgtype.Float4OID)))
}

func TestDecodeValueDecimal(t *testing.T) {
	n := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}
	// numeric renders as its exact text form, not a JSON number
	assert.Equal(t, "123.45", decodeValue(n, fd("balance", pgtype.NumericOID)))

	negative := pgtype.Numeric{Int: big.NewInt(-999999999999999999), Exp: -6, Valid: true}
	assert.Equal(t, "-999999999999.999999", decodeValue(negative, fd("balance", pgtype.NumericOID)))

	// the stored scale survives: trailing zeros are not trimmed
	scaled := pgtype.Numeric{Int: big.NewInt(150050), Exp: -2, Valid: true}
	assert.Equal(t, "1500.50", decodeValue(scaled, fd("balance", pgtype.NumericOID)))
	zeroes := pgtype.Numeric{Int: big.NewInt(100), Exp: -2, Valid: true}
	assert.Equal(t, "1.00", decodeValue(zeroes, fd("balance", pgtype.NumericOID)))

	// a non-negative exponent has no fractional digits to preserve
	whole := pgtype.Numeric{Int: big.NewInt(15), Exp: 2, Valid: true}
	assert.Equal(t, "1500", decodeValue(whole, fd("balance", pgtype.NumericOID)))

	// NaN satisfies no candidate type and falls through to null
	assert.Nil(t, decodeValue(pgtype.Numeric{NaN: true, Valid: true}, fd("balance", pgtype.NumericOID)))
}

func TestDecodeValueTextAndBool(t *testing.T) {
	assert.Equal(t, "bob", decodeValue("bob", fd("name", pgtype.TextOID)))
	assert.Equal(t, true, decodeValue(true, fd("active", pgtype.BoolOID)))
	assert.Equal(t, false, decodeValue(false, fd("active", pgtype.BoolOID)))
}

func TestDecodeValueDates(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", decodeValue(day, fd("born", pgtype.DateOID)))

	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-02 15:04:05", decodeValue(ts, fd("created", pgtype.TimestampOID)))

	withMicros := time.Date(2024, 1, 2, 15, 4, 5, 123456000, time.UTC)
	assert.Equal(t, "2024-01-02 15:04:05.123456", decodeValue(withMicros, fd("created", pgtype.TimestampOID)))

	tstz := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-02T15:04:05Z", decodeValue(tstz, fd("created", pgtype.TimestamptzOID)))
}

func TestDecodeValueNullAndUnknown(t *testing.T) {
	assert.Nil(t, decodeValue(nil, fd("x", pgtype.TextOID)))

	// a type no probe recognizes, e.g. a uuid byte array
	assert.Nil(t, decodeValue([16]byte{1, 2, 3}, fd("id", pgtype.UUIDOID)))

	// time.Time under an unexpected OID matches neither date probe
	assert.Nil(t, decodeValue(time.Now(), fd("t", pgtype.TextOID)))
}

// Re-encoding a decoded row must be stable: decoding the same stored
// values twice yields identical JSON.
func TestDecodeValueIdempotent(t *testing.T) {
	values := []struct {
		v  any
		fd pgconn.FieldDescription
	}{
		{int32(1), fd("a", pgtype.Int4OID)},
		{pgtype.Numeric{Int: big.NewInt(500), Exp: -1, Valid: true}, fd("b", pgtype.NumericOID)},
		{"text", fd("c", pgtype.TextOID)},
		{time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), fd("d", pgtype.DateOID)},
		{nil, fd("e", pgtype.TextOID)},
	}

	row1 := make(map[string]any)
	row2 := make(map[string]any)
	for _, val := range values {
		row1[val.fd.Name] = decodeValue(val.v, val.fd)
		row2[val.fd.Name] = decodeValue(val.v, val.fd)
	}

	json1, err := json.Marshal(row1)
	require.NoError(t, err)
	json2, err := json.Marshal(row2)
	require.NoError(t, err)
	assert.JSONEq(t, string(json1), string(json2))
}

// The probe list order is a contract: reordering it changes how
// type-ambiguous values decode.
func TestTypeProbeOrder(t *testing.T) {
	tags := make([]string, 0, len(typeProbes))
	for _, probe := range typeProbes {
		tags = append(tags, probe.tag)
	}
	assert.Equal(t, []string{
		"int32", "int64", "float64", "float32",
		"decimal", "text", "bool", "date", "datetime",
	}, tags)
}
