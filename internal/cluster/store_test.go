package cluster

import (
	"math/rand"
	"testing"

	"github.com/ppiankov/corefsieve/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Singletons(t *testing.T) {
	s := NewStore([]int{7, 3, 5, 3})

	assert.Equal(t, 3, s.Len())
	idx, ok := s.Find(3)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, [][]int{{7}, {3}, {5}}, s.Snapshot())
	require.NoError(t, s.Verify())
}

func TestStore_UnionKeepsLowerIndex(t *testing.T) {
	s := NewStore([]int{0, 1, 2})

	merged, err := s.Union(2, 0, model.RuleExactMatch)
	require.NoError(t, err)
	assert.True(t, merged)

	idx, _ := s.Find(2)
	assert.Equal(t, 0, idx)
	assert.True(t, s.Same(0, 2))
	assert.False(t, s.Same(0, 1))
	assert.Empty(t, s.Cluster(2))
	assert.ElementsMatch(t, []int{0, 2}, s.Members(2))

	merged, err = s.Union(0, 2, model.RulePronominal)
	require.NoError(t, err)
	assert.False(t, merged)

	assert.Equal(t, []model.RuleRecord{{Rule: model.RuleExactMatch, Mention: 2, Antecedent: 0}}, s.Trace())
	assert.Len(t, s.Rules(2), 1)
	assert.Empty(t, s.Rules(0))
}

func TestStore_UnionUnknownMention(t *testing.T) {
	s := NewStore([]int{0})
	_, err := s.Union(0, 9, model.RuleExactMatch)
	assert.Error(t, err)
	_, err = s.Union(9, 0, model.RuleExactMatch)
	assert.Error(t, err)
}

func TestStore_PartitionUnderRandomUnions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := make([]int, 50)
	for i := range ids {
		ids[i] = i * 3
	}
	s := NewStore(ids)

	for i := 0; i < 200; i++ {
		a := ids[rng.Intn(len(ids))]
		b := ids[rng.Intn(len(ids))]
		_, err := s.Union(a, b, model.RuleExactMatch)
		require.NoError(t, err)
		require.NoError(t, s.Verify())
		assert.True(t, s.Same(a, b))
	}

	total := 0
	for _, c := range s.Snapshot() {
		total += len(c)
	}
	assert.Equal(t, len(ids), total)
}

func TestStore_Reassign(t *testing.T) {
	s := NewStore([]int{0, 1, 2})
	_, err := s.Union(1, 0, model.RuleExactMatch)
	require.NoError(t, err)
	_, err = s.Union(2, 0, model.RulePronominal)
	require.NoError(t, err)

	target := s.NewCluster()
	assert.Equal(t, 3, target)

	rec := model.RuleRecord{Rule: model.RuleWeOverride, Mention: 1, Antecedent: 1}
	remaining, err := s.Reassign(1, target, rec)
	require.NoError(t, err)
	assert.True(t, remaining)
	assert.Equal(t, []int{1}, s.Cluster(target))
	assert.False(t, s.Same(0, 1))
	require.NoError(t, s.Verify())

	// Moving into the cluster it already owns is a no-op
	remaining, err = s.Reassign(1, target, rec)
	require.NoError(t, err)
	assert.False(t, remaining)

	// Emptying a cluster reports no remaining members
	s2 := NewStore([]int{5})
	t2 := s2.NewCluster()
	remaining, err = s2.Reassign(5, t2, model.RuleRecord{Rule: model.RuleWeOverride, Mention: 5, Antecedent: 5})
	require.NoError(t, err)
	assert.False(t, remaining)
	assert.Equal(t, [][]int{{5}}, s2.Snapshot())
}

func TestStore_ReassignErrors(t *testing.T) {
	s := NewStore([]int{0})
	_, err := s.Reassign(4, 0, model.RuleRecord{})
	assert.Error(t, err)
	_, err = s.Reassign(0, 3, model.RuleRecord{})
	assert.Error(t, err)
}

func TestStore_VerifyDetectsCorruption(t *testing.T) {
	s := NewStore([]int{0, 1})
	s.clusters[1] = append(s.clusters[1], 0)

	err := s.Verify()
	assert.ErrorIs(t, err, model.ErrClusterInvariant)

	s = NewStore([]int{0, 1})
	s.clusters[1] = nil
	assert.ErrorIs(t, s.Verify(), model.ErrClusterInvariant)
}
