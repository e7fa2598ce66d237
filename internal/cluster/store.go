// Package cluster keeps the partition of mentions into coreference clusters.
//
// Clusters live in an arena and are addressed by index. Every mention is
// owned by exactly one cluster; merging moves members between arena slots
// and never shares member sets, so two mentions are coreferent exactly when
// Find returns the same index.
package cluster

import (
	"fmt"
	"sort"

	"github.com/ppiankov/corefsieve/internal/model"
)

// Store is the arena of clusters
type Store struct {
	clusters [][]int     // index -> member mention ids, empty once absorbed
	owner    map[int]int // mention id -> cluster index
	rules    map[int][]model.RuleRecord
	trace    []model.RuleRecord
}

// NewStore creates one singleton cluster per mention id, indexed in the
// given order
func NewStore(ids []int) *Store {
	s := &Store{
		clusters: make([][]int, 0, len(ids)),
		owner:    make(map[int]int, len(ids)),
		rules:    make(map[int][]model.RuleRecord),
	}
	for _, id := range ids {
		if _, dup := s.owner[id]; dup {
			continue
		}
		s.owner[id] = len(s.clusters)
		s.clusters = append(s.clusters, []int{id})
	}
	return s
}

// Find returns the cluster index of a mention
func (s *Store) Find(id int) (int, bool) {
	idx, ok := s.owner[id]
	return idx, ok
}

// Same reports whether two mentions share a cluster
func (s *Store) Same(a, b int) bool {
	ia, okA := s.owner[a]
	ib, okB := s.owner[b]
	return okA && okB && ia == ib
}

// Members returns a copy of the member ids of the mention's cluster
func (s *Store) Members(id int) []int {
	idx, ok := s.owner[id]
	if !ok {
		return nil
	}
	return append([]int(nil), s.clusters[idx]...)
}

// Cluster returns a copy of the members at an arena index
func (s *Store) Cluster(idx int) []int {
	if idx < 0 || idx >= len(s.clusters) {
		return nil
	}
	return append([]int(nil), s.clusters[idx]...)
}

// Len returns the number of arena slots, including absorbed ones
func (s *Store) Len() int {
	return len(s.clusters)
}

// Union merges the clusters of a and b and records rule on a. It returns
// false when they are already merged. The lower arena index survives.
func (s *Store) Union(a, b int, rule model.Rule) (bool, error) {
	ia, ok := s.owner[a]
	if !ok {
		return false, fmt.Errorf("union: mention %d not in store", a)
	}
	ib, ok := s.owner[b]
	if !ok {
		return false, fmt.Errorf("union: mention %d not in store", b)
	}
	if ia == ib {
		return false, nil
	}

	keep, drop := ia, ib
	if drop < keep {
		keep, drop = drop, keep
	}
	for _, id := range s.clusters[drop] {
		s.owner[id] = keep
	}
	s.clusters[keep] = append(s.clusters[keep], s.clusters[drop]...)
	s.clusters[drop] = nil

	s.record(model.RuleRecord{Rule: rule, Mention: a, Antecedent: b})
	return true, nil
}

// NewCluster allocates an empty cluster and returns its index
func (s *Store) NewCluster() int {
	s.clusters = append(s.clusters, nil)
	return len(s.clusters) - 1
}

// Reassign detaches a mention from its cluster and moves it into target.
// It reports whether the mention left a cluster that still has members.
func (s *Store) Reassign(id, target int, record model.RuleRecord) (bool, error) {
	from, ok := s.owner[id]
	if !ok {
		return false, fmt.Errorf("reassign: mention %d not in store", id)
	}
	if target < 0 || target >= len(s.clusters) {
		return false, fmt.Errorf("reassign: cluster %d out of range", target)
	}
	if from == target {
		return false, nil
	}

	members := s.clusters[from]
	for i, m := range members {
		if m == id {
			s.clusters[from] = append(members[:i:i], members[i+1:]...)
			break
		}
	}
	s.clusters[target] = append(s.clusters[target], id)
	s.owner[id] = target

	s.record(record)
	return len(s.clusters[from]) > 0, nil
}

func (s *Store) record(r model.RuleRecord) {
	s.rules[r.Mention] = append(s.rules[r.Mention], r)
	s.trace = append(s.trace, r)
}

// Rules returns the rule records attached to a mention
func (s *Store) Rules(id int) []model.RuleRecord {
	return s.rules[id]
}

// Trace returns every rule record in application order
func (s *Store) Trace() []model.RuleRecord {
	return append([]model.RuleRecord(nil), s.trace...)
}

// Verify checks that every mention is listed in exactly the cluster that
// owns it
func (s *Store) Verify() error {
	seen := make(map[int]int, len(s.owner))
	for idx, members := range s.clusters {
		for _, id := range members {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("mention %d in clusters %d and %d: %w", id, prev, idx, model.ErrClusterInvariant)
			}
			seen[id] = idx
			if s.owner[id] != idx {
				return fmt.Errorf("mention %d listed in cluster %d but owned by %d: %w", id, idx, s.owner[id], model.ErrClusterInvariant)
			}
		}
	}
	if len(seen) != len(s.owner) {
		return fmt.Errorf("%d mentions owned, %d listed: %w", len(s.owner), len(seen), model.ErrClusterInvariant)
	}
	return nil
}

// Snapshot returns the non-empty clusters with sorted members, in arena order
func (s *Store) Snapshot() [][]int {
	var out [][]int
	for _, members := range s.clusters {
		if len(members) == 0 {
			continue
		}
		c := append([]int(nil), members...)
		sort.Ints(c)
		out = append(out, c)
	}
	return out
}
