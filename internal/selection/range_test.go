package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
)

func numberElements(width float64, values ...float64) []ir.Element {
	out := make([]ir.Element, len(values))
	for i, v := range values {
		n := ir.Number(v)
		out[i] = ir.Element{Label: n.String(), Value: n, BinWidth: width}
	}
	return out
}

func TestToggleRange_UnbinnedInclusive(t *testing.T) {
	all := numberElements(0, 5, 7, 9, 11)
	tr := NewTracker(ir.FieldNumber)

	_, err := tr.ToggleRange(find(t, all, "5"), all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(find(t, all, "9"), all, true)
	require.NoError(t, err)

	assert.Equal(t, predicate.Range{Lower: ir.Number(5), Upper: ir.Number(9), UpperInclusive: true}, res.Predicate)
	assert.Equal(t, "[5, 9]", res.Predicate.String())
	assert.Equal(t, []string{"5", "7", "9"}, Labels(res.Classes, Selected))
	assert.Equal(t, []string{"11"}, Labels(res.Classes, Dimmed))
}

func TestToggleRange_BinnedExclusive(t *testing.T) {
	all := numberElements(10, 10, 20, 30, 40, 50)
	tr := NewTracker(ir.FieldNumber)

	_, err := tr.ToggleRange(find(t, all, "20"), all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(find(t, all, "40"), all, true)
	require.NoError(t, err)

	assert.Equal(t, predicate.Range{Lower: ir.Number(20), Upper: ir.Number(50), UpperInclusive: false}, res.Predicate)
	assert.Equal(t, "[20, 50)", res.Predicate.String())
	assert.Equal(t, []string{"20", "30", "40"}, Labels(res.Classes, Selected))
	assert.Equal(t, []string{"10", "50"}, Labels(res.Classes, Dimmed))
}

func TestToggleRange_BinnedUpperEdge(t *testing.T) {
	all := numberElements(10, 20, 40)
	tr := NewTracker(ir.FieldNumber)
	_, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[1], all, true)
	require.NoError(t, err)

	assert.False(t, predicate.Matches(res.Predicate, ir.Number(50)))
	assert.True(t, predicate.Matches(res.Predicate, ir.Number(50-1e-9)))
	assert.True(t, predicate.Matches(res.Predicate, ir.Number(20)))
}

func TestToggleRange_OrderIndependent(t *testing.T) {
	tests := []struct {
		name  string
		width float64
		a, b  float64
	}{
		{"unbinned", 0, 5, 9},
		{"binned", 10, 20, 40},
		{"negative", 1, -3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := numberElements(tt.width, tt.a, tt.b)

			forward := NewTracker(ir.FieldNumber)
			_, err := forward.ToggleRange(all[0], all, false)
			require.NoError(t, err)
			fwd, err := forward.ToggleRange(all[1], all, true)
			require.NoError(t, err)

			reverse := NewTracker(ir.FieldNumber)
			_, err = reverse.ToggleRange(all[1], all, false)
			require.NoError(t, err)
			rev, err := reverse.ToggleRange(all[0], all, true)
			require.NoError(t, err)

			assert.Equal(t, fwd.Predicate, rev.Predicate)
			assert.Equal(t, fwd.Classes, rev.Classes)
		})
	}
}

func TestToggleRange_DegenerateIsExact(t *testing.T) {
	all := numberElements(0, 5, 9)
	tr := NewTracker(ir.FieldNumber)

	res, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	assert.Equal(t, predicate.Exact{Value: ir.Number(5)}, res.Predicate)

	// Modifier-click on the first bound itself.
	res, err = tr.ToggleRange(all[0], all, true)
	require.NoError(t, err)
	assert.Equal(t, predicate.Exact{Value: ir.Number(5)}, res.Predicate)
	assert.Equal(t, []string{"5"}, Labels(res.Classes, Selected))
}

func TestToggleRange_SingleBinIsHalfOpen(t *testing.T) {
	all := numberElements(10, 20, 30)
	tr := NewTracker(ir.FieldNumber)

	res, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)

	assert.Equal(t, predicate.Range{Lower: ir.Number(20), Upper: ir.Number(30)}, res.Predicate)
	assert.Equal(t, []string{"20"}, Labels(res.Classes, Selected))
}

func TestToggleRange_ReclickFirstBoundClears(t *testing.T) {
	all := numberElements(0, 1, 2, 3)
	tr := NewTracker(ir.FieldNumber)

	_, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	_, err = tr.ToggleRange(all[2], all, true)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)

	assert.True(t, res.Cleared())
	assert.True(t, tr.State().Empty())
	assert.Equal(t, []string{"1", "2", "3"}, Labels(res.Classes, Neutral))
}

func TestToggleRange_PlainClickRestarts(t *testing.T) {
	all := numberElements(0, 1, 2, 3)
	tr := NewTracker(ir.FieldNumber)

	_, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	_, err = tr.ToggleRange(all[2], all, true)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[1], all, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, tr.State().Labels())
	assert.Equal(t, predicate.Exact{Value: ir.Number(2)}, res.Predicate)
}

func TestToggleRange_ModifierOverwritesSecondBound(t *testing.T) {
	all := numberElements(0, 1, 2, 3, 4)
	tr := NewTracker(ir.FieldNumber)

	_, err := tr.ToggleRange(all[1], all, false)
	require.NoError(t, err)
	_, err = tr.ToggleRange(all[3], all, true)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[0], all, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "1"}, tr.State().Labels())
	assert.Equal(t, "[1, 2]", res.Predicate.String())
}

func TestToggleRange_ModifierOnEmptySetsFirstBound(t *testing.T) {
	all := numberElements(0, 1, 2)
	tr := NewTracker(ir.FieldNumber)

	res, err := tr.ToggleRange(all[1], all, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, tr.State().Labels())
	assert.Equal(t, predicate.Exact{Value: ir.Number(2)}, res.Predicate)
}

func TestToggleRange_DateBinsNotExtended(t *testing.T) {
	day := func(d int) ir.Value { return ir.NewDate(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)) }
	all := []ir.Element{
		{Label: "d1", Value: day(1), BinWidth: 86400},
		{Label: "d2", Value: day(2), BinWidth: 86400},
		{Label: "d3", Value: day(3), BinWidth: 86400},
	}
	tr := NewTracker(ir.FieldDate)

	_, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[2], all, true)
	require.NoError(t, err)

	assert.Equal(t, predicate.Range{Lower: day(1), Upper: day(3), UpperInclusive: false}, res.Predicate)
	assert.Equal(t, []string{"d1", "d2"}, Labels(res.Classes, Selected))
	assert.Equal(t, []string{"d3"}, Labels(res.Classes, Dimmed))
}

func TestToggleRange_ObjectIDsOrderedByTimestamp(t *testing.T) {
	at := func(d int, suffix uint64) ir.ObjectID {
		return ir.ObjectIDAt(time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC), suffix)
	}
	early, mid, late := at(1, 99), at(2, 50), at(3, 1)
	all := []ir.Element{
		{Label: "early", Value: early},
		{Label: "mid", Value: mid},
		{Label: "late", Value: late},
	}
	tr := NewTracker(ir.FieldObjectID)

	_, err := tr.ToggleRange(all[2], all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[0], all, true)
	require.NoError(t, err)

	assert.Equal(t, predicate.Range{Lower: early, Upper: late, UpperInclusive: true}, res.Predicate)
	assert.Equal(t, []string{"early", "mid", "late"}, Labels(res.Classes, Selected))
}

// Elements out of value order are classified by value; the classification
// list keeps input order and no error is raised.
func TestToggleRange_UnsortedElementsNotRepaired(t *testing.T) {
	all := numberElements(0, 9, 1, 5, 3)
	tr := NewTracker(ir.FieldNumber)

	_, err := tr.ToggleRange(find(t, all, "1"), all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(find(t, all, "5"), all, true)
	require.NoError(t, err)

	assert.Equal(t, []ElementClass{
		{Label: "9", Class: Dimmed},
		{Label: "1", Class: Selected},
		{Label: "5", Class: Selected},
		{Label: "3", Class: Selected},
	}, res.Classes)
	assert.Equal(t, "[1, 5]", res.Predicate.String())
}

func TestToggleRange_FailedBoundsLeaveStateUnchanged(t *testing.T) {
	all := []ir.Element{
		{Label: "n", Value: ir.Number(1)},
		{Label: "s", Value: ir.String("2")},
	}
	tr := NewTracker(ir.FieldNumber)

	before, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	_, err = tr.ToggleRange(all[1], all, true)
	require.Error(t, err)

	assert.Equal(t, []string{"n"}, tr.State().Labels())
	assert.Equal(t, before.Classes, tr.Classify(all))
}

func TestToggleRange_ClassifyMatchesResult(t *testing.T) {
	all := numberElements(10, 0, 10, 20)
	tr := NewTracker(ir.FieldNumber)
	_, err := tr.ToggleRange(all[0], all, false)
	require.NoError(t, err)
	res, err := tr.ToggleRange(all[1], all, true)
	require.NoError(t, err)

	assert.Equal(t, res.Classes, tr.Classify(all))
	assert.Equal(t, ModeRange, tr.Mode())
}
