package algorithms

import "github.com/dd0wney/cluso-netanalytics/pkg/graph"

// DetectCommunities builds attribute communities and structural clusters for
// g and reconciles them into one list plus a membership index. Structural
// clusters are named only after the attribute pass has claimed its labels.
func DetectCommunities(g *graph.NetworkGraph, contacts graph.Contacts, cfg Config) *CommunityDetectionResult {
	attributes := AttributeCommunities(g, contacts, cfg)
	clusters := StructuralClusters(g, contacts, ClaimedLabels(attributes), cfg)
	return Reconcile(g, contacts, attributes, clusters)
}

// Reconcile merges the output of both community passes.
func Reconcile(g *graph.NetworkGraph, contacts graph.Contacts, attributes []Community, clusters *ClusterResult) *CommunityDetectionResult {
	all := make([]Community, 0, len(attributes)+len(clusters.Clusters))
	all = append(all, attributes...)
	all = append(all, clusters.Clusters...)

	communities, memberships := ReconcileCommunities(g, contacts, all)
	return &CommunityDetectionResult{
		Communities: communities,
		Memberships: memberships,
		Propagation: clusters.Propagation,
	}
}
