package allocation

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "intake/pkg/domain-errors"
)

func percents(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Percent
	}
	return out
}

func TestAddRemoveScenario(t *testing.T) {
	e := New()
	key := BucketKey{CoverageID: "base", Kind: KindPrimary}

	assert.Equal(t, []float64{100}, percents(e.Rows(key)), "primary bucket seeds one row at 100%")

	e.AddRow(key)
	assert.Equal(t, []float64{50, 50}, percents(e.Rows(key)))

	e.AddRow(key)
	assert.Equal(t, []float64{33.33, 33.33, 33.33}, percents(e.Rows(key)))

	require.NoError(t, e.RemoveRow(key, 2))
	assert.Equal(t, []float64{50, 50}, percents(e.Rows(key)))
	assert.Equal(t, []int{1, 3}, []int{e.Rows(key)[0].ID, e.Rows(key)[1].ID})
}

func TestSeeding(t *testing.T) {
	e := New()
	assert.Empty(t, e.Rows(BucketKey{CoverageID: "rider-1", Kind: KindContingent}))
	assert.Len(t, e.Rows(PayorBucket()), 1)
	assert.Empty(t, e.Buckets, "reads do not store buckets")
}

func TestRemoveRow_Minimums(t *testing.T) {
	e := New()

	primary := BucketKey{CoverageID: "base", Kind: KindPrimary}
	err := e.RemoveRow(primary, 1)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	assert.Len(t, e.Rows(primary), 1)

	contingent := BucketKey{CoverageID: "base", Kind: KindContingent}
	row := e.AddRow(contingent)
	assert.Equal(t, 100.0, row.Percent)
	require.NoError(t, e.RemoveRow(contingent, row.ID))
	assert.Empty(t, e.Rows(contingent), "no row is recreated")

	require.NoError(t, e.RemoveRow(PayorBucket(), 1))
	assert.Empty(t, e.Rows(PayorBucket()))

	err = e.RemoveRow(contingent, 99)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestFailedEditsLeaveNoBucket(t *testing.T) {
	e := New()
	primary := BucketKey{CoverageID: "base", Kind: KindPrimary}
	contingent := BucketKey{CoverageID: "base", Kind: KindContingent}

	calls := map[string]func() error{
		"remove missing":   func() error { return e.RemoveRow(contingent, 3) },
		"remove last":      func() error { return e.RemoveRow(primary, 1) },
		"set missing":      func() error { return e.SetAllocation(primary, 9, 50) },
		"link missing":     func() error { return e.LinkRow(PayorBucket(), 4, 2) },
		"describe missing": func() error { return e.DescribeRow(contingent, 1, "SPOUSE", "1") },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			require.Error(t, call())
			assert.Empty(t, e.Buckets)
		})
	}

	require.NoError(t, e.LinkRow(primary, 1, 5))
	assert.Equal(t, []BucketKey{primary}, e.Keys(), "a successful edit stores the seeded bucket")
}

func TestSetAllocation_NoRedistribution(t *testing.T) {
	e := New()
	key := BucketKey{CoverageID: "base", Kind: KindPrimary}
	e.AddRow(key)

	require.NoError(t, e.SetAllocation(key, 1, 70))
	assert.Equal(t, []float64{70, 50}, percents(e.Rows(key)))
	assert.Equal(t, 120.0, e.TotalAllocated(key))
	assert.False(t, e.IsBalanced(key))
	assert.Equal(t, []BucketKey{key}, e.Imbalanced())

	for _, bad := range []float64{-1, 100.01, math.NaN()} {
		err := e.SetAllocation(key, 1, bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "%v", bad)
	}

	e.AddRow(key)
	assert.True(t, e.IsBalanced(key), "add resets manual overrides")
}

func TestLinkRow(t *testing.T) {
	e := New()
	key := BucketKey{CoverageID: "base", Kind: KindPrimary}
	assert.False(t, e.IsBucketComplete(key))

	require.NoError(t, e.LinkRow(key, 1, 7))
	assert.True(t, e.IsBucketComplete(key))
	assert.Equal(t, 100.0, e.Rows(key)[0].Percent)

	e.AddRow(key)
	assert.False(t, e.IsBucketComplete(key))

	assert.True(t, e.IsBucketComplete(BucketKey{CoverageID: "base", Kind: KindContingent}), "empty bucket")
	require.Error(t, e.LinkRow(key, 1, 0))
}

func TestReferences(t *testing.T) {
	e := New()
	base := BucketKey{CoverageID: "base", Kind: KindPrimary}
	rider := BucketKey{CoverageID: "rider-1", Kind: KindContingent}
	require.NoError(t, e.LinkRow(base, 1, 3))
	row := e.AddRow(rider)
	require.NoError(t, e.LinkRow(rider, row.ID, 3))
	require.NoError(t, e.LinkRow(PayorBucket(), 1, 3))

	assert.ElementsMatch(t, []BucketKey{base, rider}, e.References(3, KindPrimary, KindContingent))
	assert.Equal(t, []BucketKey{PayorBucket()}, e.References(3, KindPayor))
	assert.Len(t, e.References(3), 3)
	assert.Empty(t, e.References(4))

	e.DropCoverage("rider-1")
	assert.Equal(t, []BucketKey{base}, e.References(3, KindPrimary, KindContingent))
}

func TestRounders(t *testing.T) {
	assert.Equal(t, []float64{33.33, 33.33, 33.33}, EqualShares(3))
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, RemainderCorrected(3))
	assert.Nil(t, EqualShares(0))

	for n := 1; n <= 50; n++ {
		var sum float64
		for _, v := range RemainderCorrected(n) {
			sum += v
		}
		assert.Equal(t, 100.0, Round2(sum), "count %d", n)
	}
}

func TestRedistributionProperty(t *testing.T) {
	for _, strategy := range []Strategy{StrategyEqual, StrategyRemainder} {
		t.Run(string(strategy), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(1, 2))
			e := New(WithStrategy(strategy))
			key := BucketKey{CoverageID: "additional-1", Kind: KindContingent}
			for range 500 {
				rows := e.Rows(key)
				if len(rows) > 0 && rng.IntN(3) == 0 {
					require.NoError(t, e.RemoveRow(key, rows[rng.IntN(len(rows))].ID))
				} else {
					e.AddRow(key)
				}
				assert.True(t, e.IsBalanced(key), "sum %v with %d rows", e.TotalAllocated(key), len(e.Rows(key)))
				if strategy == StrategyRemainder && len(e.Rows(key)) > 0 {
					assert.Equal(t, 100.0, e.TotalAllocated(key))
				}
			}
		})
	}
}

func TestRowIDsUnique(t *testing.T) {
	e := New()
	key := BucketKey{CoverageID: "base", Kind: KindPrimary}
	for range 5 {
		e.AddRow(key)
	}
	require.NoError(t, e.RemoveRow(key, 6))
	require.NoError(t, e.RemoveRow(key, 2))
	row := e.AddRow(key)
	assert.Equal(t, 6, row.ID, "next id is max+1")
}

func TestNewBucketKey(t *testing.T) {
	_, err := NewBucketKey("base", KindPayor)
	require.Error(t, err)
	_, err = NewBucketKey("", KindPrimary)
	require.Error(t, err)
	_, err = NewBucketKey("base", Kind("secondary"))
	require.Error(t, err)

	key, err := NewBucketKey(" rider-2 ", KindContingent)
	require.NoError(t, err)
	assert.Equal(t, "rider-2/contingent", key.String())
}

func TestEngine_JSON(t *testing.T) {
	e := New(WithStrategy(StrategyRemainder))
	key := BucketKey{CoverageID: "base", Kind: KindPrimary}
	e.AddRow(key)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	var decoded Engine
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, e.Rows(key), decoded.Rows(key))
	assert.Equal(t, StrategyRemainder, decoded.Strategy)

	clone := e.Clone()
	clone.AddRow(key)
	assert.Len(t, e.Rows(key), 2, "clone is independent")
}
