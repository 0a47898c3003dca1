package algorithms

import (
	"sort"
	"strconv"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// LabelPropagation assigns a community label to every node. Each node starts
// in its own community; nodes are visited in canonical order and move to the
// neighbouring community with the most connections only when it strictly
// outnumbers the connections to their current one. Among equally common
// neighbouring communities the one counted first wins.
//
// A pass without moves stops the run. Reaching maxPasses with moves still
// happening is reported as not converged.
func LabelPropagation(g *graph.NetworkGraph, maxPasses int) ([]int, PropagationStats) {
	n := g.Len()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	var stats PropagationStats
	if n == 0 {
		stats.Converged = true
		return labels, stats
	}

	counts := make(map[int]int)
	for pass := 1; pass <= maxPasses; pass++ {
		stats.Passes = pass
		moves := 0

		for i := 0; i < n; i++ {
			neighbors := g.Neighbors(i)
			if len(neighbors) == 0 {
				continue
			}

			clear(counts)
			bestLabel, bestCount := labels[i], 0
			for _, j := range neighbors {
				label := labels[j]
				counts[label]++
				if counts[label] > bestCount {
					bestLabel, bestCount = label, counts[label]
				}
			}

			if bestLabel != labels[i] && bestCount > counts[labels[i]] {
				labels[i] = bestLabel
				moves++
			}
		}

		stats.Moves += moves
		if moves == 0 {
			stats.Converged = true
			break
		}
	}

	return labels, stats
}

// StructuralClusters detects topology-based clusters and names them from
// their members' declared attributes, resolved from contacts first and node
// fields second. A cluster whose dominant organization is already in claimed
// (normalized labels of attribute communities) is dropped. Clusters are
// emitted largest first and numbered 1..n in emission order, so dropped or
// undersized groups leave no gaps in IDs or fallback labels.
func StructuralClusters(g *graph.NetworkGraph, contacts graph.Contacts, claimed map[string]struct{}, cfg Config) *ClusterResult {
	labels, stats := LabelPropagation(g, cfg.MaxPropagationPasses)
	result := &ClusterResult{Propagation: stats}

	for _, members := range groupByLabel(labels) {
		if len(members) < cfg.MinClusterSize {
			continue
		}

		profile := profileGroup(g, contacts, members, cfg.MinKeywordLength)
		number := strconv.Itoa(len(result.Clusters) + 1)
		label := "Community " + number

		if org, count := profile.dominantOrganization(); count > 0 && profile.share(count) > cfg.OrganizationShare {
			if _, taken := claimed[graph.NormalizeLabel(org)]; taken {
				result.Dropped++
				continue
			}
			label = org
		} else if kw, count := profile.dominantKeyword(); count > 0 && profile.share(count) > cfg.KeywordShare {
			label = capitalize(kw) + " Professionals"
		}

		result.Clusters = append(result.Clusters, Community{
			ID:              "cluster:" + number,
			Type:            CommunityCluster,
			Label:           label,
			Members:         memberIDs(g, members),
			Size:            len(members),
			Density:         density(g.InternalEdges(members), len(members)),
			Characteristics: profile.characteristics(),
		})
	}

	return result
}

// groupByLabel collects node indexes per label. Groups are ordered by size
// descending, ties by their first member; members are ascending.
func groupByLabel(labels []int) [][]int {
	byLabel := make(map[int]int)
	var groups [][]int
	for i, label := range labels {
		pos, ok := byLabel[label]
		if !ok {
			pos = len(groups)
			byLabel[label] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], i)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})
	return groups
}
