package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chartpick/internal/ir"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.SQL().Exec(`
		CREATE TABLE people (
			name    TEXT,
			age     INTEGER,
			score   REAL,
			joined  TEXT,
			active  INTEGER,
			oid     TEXT
		);
		INSERT INTO people VALUES ('ann',   23, 1.5,  '2024-01-02',           1, '65920080aaaaaaaaaaaaaaaa');
		INSERT INTO people VALUES ('bob',   41, 2.0,  '2024-01-01T10:00:00Z', 0, '659200800000000000000001');
		INSERT INTO people VALUES ('cy',    29, NULL, '2024-01-02',           1, NULL);
		INSERT INTO people VALUES ('ann',   47, 9.25, NULL,                   1, NULL);
		INSERT INTO people VALUES (NULL,    20, 3,    NULL,                   NULL, NULL);
	`)
	require.NoError(t, err)
	return db
}

func labels(elems []ir.Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Label
	}
	return out
}

func TestDistinct_Strings(t *testing.T) {
	db := setupTestDB(t)

	elems, err := db.Distinct(context.Background(), "people", "name", ir.FieldString)
	require.NoError(t, err)

	assert.Equal(t, []string{"ann", "bob", "cy"}, labels(elems))
	assert.Equal(t, ir.Value(ir.String("ann")), elems[0].Value)
	assert.Zero(t, elems[0].BinWidth)
}

func TestDistinct_NumbersInValueOrder(t *testing.T) {
	db := setupTestDB(t)

	elems, err := db.Distinct(context.Background(), "people", "score", ir.FieldNumber)
	require.NoError(t, err)

	assert.Equal(t, []string{"1.5", "2", "3", "9.25"}, labels(elems))
}

func TestDistinct_Dates(t *testing.T) {
	db := setupTestDB(t)

	elems, err := db.Distinct(context.Background(), "people", "joined", ir.FieldDate)
	require.NoError(t, err)

	require.Len(t, elems, 2)
	assert.Equal(t, ir.Value(ir.NewDate(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))), elems[0].Value)
	assert.Equal(t, "2024-01-02T00:00:00Z", elems[1].Label)
}

func TestDistinct_ObjectIDs(t *testing.T) {
	db := setupTestDB(t)

	elems, err := db.Distinct(context.Background(), "people", "oid", ir.FieldObjectID)
	require.NoError(t, err)

	assert.Equal(t, []string{"659200800000000000000001", "65920080aaaaaaaaaaaaaaaa"}, labels(elems))
	assert.Equal(t, ir.KindObjectID, elems[0].Value.Kind())
}

func TestDistinct_Booleans(t *testing.T) {
	db := setupTestDB(t)

	elems, err := db.Distinct(context.Background(), "people", "active", ir.FieldBoolean)
	require.NoError(t, err)

	assert.Equal(t, []string{"false", "true"}, labels(elems))
}

func TestDistinct_TypeMismatch(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Distinct(context.Background(), "people", "name", ir.FieldNumber)

	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "distinct", se.Op)
}

func TestHistogram(t *testing.T) {
	db := setupTestDB(t)

	elems, err := db.Histogram(context.Background(), "people", "age", 10)
	require.NoError(t, err)

	assert.Equal(t, []ir.Element{
		{Label: "20", Value: ir.Number(20), BinWidth: 10},
		{Label: "40", Value: ir.Number(40), BinWidth: 10},
	}, elems)
}

func TestHistogram_InvalidWidth(t *testing.T) {
	db := setupTestDB(t)

	for _, w := range []float64{0, -5} {
		_, err := db.Histogram(context.Background(), "people", "age", w)
		assert.Error(t, err, "width %v", w)
	}
}

func TestInvalidIdentifier(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.Distinct(ctx, "people; DROP TABLE people", "name", ir.FieldString)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = db.Histogram(ctx, "people", `age"`, 10)
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = db.InferType(ctx, "1people", "age")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestUnknownTable(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Distinct(context.Background(), "nobody", "name", ir.FieldString)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "source distinct nobody.name")
}

func TestInferType(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		field    string
		expected ir.FieldType
	}{
		{"name", ir.FieldString},
		{"age", ir.FieldNumber},
		{"score", ir.FieldNumber},
		{"joined", ir.FieldString},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			ft, err := db.InferType(ctx, "people", tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ft)
		})
	}
}

func TestInferType_EmptyColumn(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.SQL().Exec(`CREATE TABLE empty (x TEXT)`)
	require.NoError(t, err)

	ft, err := db.InferType(context.Background(), "empty", "x")

	require.NoError(t, err)
	assert.Equal(t, ir.FieldUnsupported, ft)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "ann", Label(ir.String("ann")))
	assert.Equal(t, "2.5", Label(ir.Number(2.5)))
	assert.Equal(t, "true", Label(ir.Bool(true)))
}
