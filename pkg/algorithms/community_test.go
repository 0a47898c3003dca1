package algorithms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// acmeGraph builds Alice, Bob and Carol at Acme, fully connected, plus two
// unrelated contacts joined to each other.
func acmeGraph(t *testing.T) *graph.NetworkGraph {
	return mustBuild(t, graph.NewBuilder().
		AddNode(companyNode("alice", "Acme")).
		AddNode(companyNode("bob", "Acme")).
		AddNode(companyNode("carol", "Acme")).
		AddNode(companyNode("dave", "Globex")).
		AddNode(graph.NetworkNode{ID: "erin", Name: "Erin"}).
		Connect("alice", "bob").
		Connect("bob", "carol").
		Connect("alice", "carol").
		Connect("dave", "erin"))
}

func findCommunity(communities []Community, id string) (Community, bool) {
	for _, c := range communities {
		if c.ID == id {
			return c, true
		}
	}
	return Community{}, false
}

// TestAttributeCommunities_Acme tests the fully connected company example
func TestAttributeCommunities_Acme(t *testing.T) {
	g := acmeGraph(t)
	communities := AttributeCommunities(g, graph.ContactsFromGraph(g), DefaultConfig())

	if len(communities) != 1 {
		t.Fatalf("Expected 1 community, got %d: %+v", len(communities), communities)
	}
	acme := communities[0]
	if acme.ID != "company:acme" || acme.Label != "Acme" || acme.Type != CommunityCompany {
		t.Errorf("Unexpected community header: %+v", acme)
	}
	if acme.Size != 3 || !almostEqual(acme.Density, 1.0) {
		t.Errorf("Expected size 3 density 1.0, got size %d density %f", acme.Size, acme.Density)
	}
	if diff := cmp.Diff([]string{"alice", "bob", "carol"}, acme.Members); diff != "" {
		t.Errorf("Unexpected members (-want +got):\n%s", diff)
	}
}

// TestAttributeCommunities_Thresholds tests minimum group sizes
func TestAttributeCommunities_Thresholds(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().AddNodes("a", "b", "c", "d").Connect("a", "b"))
	contacts := graph.NewContacts([]graph.Contact{
		{ID: "a", Company: "Solo", Affiliation: "MIT", Tags: []string{"Go ", "rust"}},
		{ID: "b", Affiliation: "MIT", Tags: []string{"go", "GO", "rust"}},
		{ID: "c", Tags: []string{"GO"}},
		{ID: "d", Tags: []string{"  "}},
	})

	communities := AttributeCommunities(g, contacts, DefaultConfig())

	if _, ok := findCommunity(communities, "company:solo"); ok {
		t.Error("Company community of size 1 must not be emitted")
	}
	if _, ok := findCommunity(communities, "tag:rust"); ok {
		t.Error("Tag community of size 2 must not be emitted")
	}

	mit, ok := findCommunity(communities, "affiliation:mit")
	if !ok || mit.Size != 2 || !almostEqual(mit.Density, 1.0) {
		t.Errorf("Expected MIT affiliation of size 2 and density 1, got %+v", mit)
	}

	tag, ok := findCommunity(communities, "tag:go")
	if !ok {
		t.Fatal("Expected tag:go community")
	}
	if tag.Label != "Go" || tag.Size != 3 {
		t.Errorf("Expected label Go size 3, got %q size %d", tag.Label, tag.Size)
	}
	if diff := cmp.Diff([]string{"go"}, tag.Characteristics.Tags); diff != "" {
		t.Errorf("Unexpected tag provenance (-want +got):\n%s", diff)
	}

	for _, c := range communities {
		min := 2
		if c.Type == CommunityTag {
			min = 3
		}
		if c.Size < min {
			t.Errorf("Community %s below threshold: %d", c.ID, c.Size)
		}
	}
}

// TestAttributeCommunities_ContactOverridesNode tests attribute precedence
func TestAttributeCommunities_ContactOverridesNode(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNode(companyNode("a", "OldCo")).
		AddNode(companyNode("b", "OldCo")))
	contacts := graph.NewContacts([]graph.Contact{{ID: "a", Company: "NewCo"}})

	communities := AttributeCommunities(g, contacts, DefaultConfig())
	if len(communities) != 0 {
		t.Errorf("Expected no community once a moved to NewCo, got %+v", communities)
	}
}

// TestAttributeCommunities_UniqueIDs tests IDs for values that normalize alike
func TestAttributeCommunities_UniqueIDs(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().AddNodes("a", "b", "c", "d", "e", "f"))
	contacts := graph.NewContacts([]graph.Contact{
		{ID: "a", Company: "Acme"},
		{ID: "b", Company: "Acme"},
		{ID: "c", Company: "acme"},
		{ID: "d", Company: "acme"},
		{ID: "e", Company: "Acme-2"},
		{ID: "f", Company: "Acme-2"},
	})

	communities := AttributeCommunities(g, contacts, DefaultConfig())

	var ids []string
	for _, c := range communities {
		ids = append(ids, c.ID)
	}
	want := []string{"company:acme", "company:acme-2", "company:acme-3"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Unexpected IDs (-want +got):\n%s", diff)
	}

	merged, _ := ReconcileCommunities(g, contacts, communities)
	acme, ok := findCommunity(merged, "company:acme")
	if !ok || acme.Size != 4 {
		t.Errorf("Expected Acme and acme merged into one community of 4, got %+v", merged)
	}
}

// TestLabelPropagation_TwoClusters tests two disjoint triangles
func TestLabelPropagation_TwoClusters(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNodes("a", "b", "c", "d", "e", "f").
		Connect("a", "b").Connect("b", "c").Connect("a", "c").
		Connect("d", "e").Connect("e", "f").Connect("d", "f"))

	labels, stats := LabelPropagation(g, 10)

	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("Expected first triangle in one community, got %v", labels)
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("Expected second triangle in one community, got %v", labels)
	}
	if labels[0] == labels[3] {
		t.Errorf("Expected triangles in different communities, got %v", labels)
	}
	if !stats.Converged || stats.Passes != 2 || stats.Moves != 4 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

// TestLabelPropagation_PassBound tests that hitting the bound is reported
func TestLabelPropagation_PassBound(t *testing.T) {
	g := completeGraph(t, 4)
	_, stats := LabelPropagation(g, 1)
	if stats.Converged || stats.Passes != 1 {
		t.Errorf("Expected a non-converged single pass, got %+v", stats)
	}
}

// TestLabelPropagation_Isolated tests that isolated nodes keep their own label
func TestLabelPropagation_Isolated(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().AddNodes("a", "b"))
	labels, stats := LabelPropagation(g, 10)
	if labels[0] == labels[1] {
		t.Errorf("Expected distinct labels, got %v", labels)
	}
	if !stats.Converged || stats.Passes != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

// TestStructuralClusters_DropsClaimedOrganization tests attribute authority
func TestStructuralClusters_DropsClaimedOrganization(t *testing.T) {
	g := acmeGraph(t)

	result := StructuralClusters(g, graph.Contacts{}, map[string]struct{}{"acme": {}}, DefaultConfig())

	if result.Dropped != 1 {
		t.Errorf("Expected 1 dropped cluster, got %d", result.Dropped)
	}
	for _, c := range result.Clusters {
		if c.Label == "Acme" {
			t.Errorf("Acme cluster should have been dropped: %+v", c)
		}
	}

	unclaimed := StructuralClusters(g, graph.Contacts{}, nil, DefaultConfig())
	if unclaimed.Dropped != 0 || unclaimed.Clusters[0].Label != "Acme" {
		t.Errorf("Expected Acme cluster first when unclaimed, got %+v", unclaimed.Clusters)
	}
}

// TestStructuralClusters_Naming tests organization, keyword and fallback labels
func TestStructuralClusters_Naming(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNode(graph.NetworkNode{ID: "a1", Name: "A1", Position: "Software Engineer"}).
		AddNode(graph.NetworkNode{ID: "a2", Name: "A2", Position: "Backend Engineer"}).
		AddNode(graph.NetworkNode{ID: "a3", Name: "A3", Position: "Data Scientist"}).
		AddNode(graph.NetworkNode{ID: "a4", Name: "A4", Position: "Senior Engineer"}).
		AddNode(graph.NetworkNode{ID: "b1", Name: "B1", Affiliation: "Stanford"}).
		AddNode(graph.NetworkNode{ID: "b2", Name: "B2", Affiliation: "Stanford"}).
		AddNode(graph.NetworkNode{ID: "b3", Name: "B3"}).
		AddNode(graph.NetworkNode{ID: "c1", Name: "C1", Position: "CEO"}).
		AddNode(graph.NetworkNode{ID: "c2", Name: "C2", Position: "CTO"}).
		Connect("a1", "a2").Connect("a2", "a3").Connect("a1", "a3").Connect("a3", "a4").Connect("a1", "a4").
		Connect("b1", "b2").Connect("b2", "b3").Connect("b1", "b3").
		Connect("c1", "c2"))

	result := StructuralClusters(g, graph.Contacts{}, nil, DefaultConfig())

	var labels []string
	for _, c := range result.Clusters {
		labels = append(labels, c.Label)
	}
	want := []string{"Engineer Professionals", "Stanford", "Community 3"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("Unexpected labels (-want +got):\n%s", diff)
	}

	if result.Clusters[0].ID != "cluster:1" || result.Clusters[0].Size != 4 {
		t.Errorf("Expected the largest cluster first, got %+v", result.Clusters[0])
	}
	if kw := result.Clusters[0].Characteristics.IndustryKeywords; len(kw) == 0 || kw[0] != "engineer" {
		t.Errorf("Expected engineer as top keyword, got %v", kw)
	}
}

// TestStructuralClusters_ContactAttributes tests naming from contacts over bare nodes
func TestStructuralClusters_ContactAttributes(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNodes("a", "b", "c", "x", "y", "z").
		Connect("a", "b").Connect("b", "c").Connect("a", "c").
		Connect("x", "y").Connect("y", "z").Connect("x", "z"))
	contacts := graph.NewContacts([]graph.Contact{
		{ID: "a", Company: "Acme"},
		{ID: "b", Company: "Acme"},
		{ID: "c", Company: "Acme"},
		{ID: "x", Position: "Platform Engineer"},
		{ID: "y", Position: "Support Engineer"},
		{ID: "z"},
	})

	result := StructuralClusters(g, contacts, nil, DefaultConfig())

	var labels []string
	for _, c := range result.Clusters {
		labels = append(labels, c.Label)
	}
	if diff := cmp.Diff([]string{"Acme", "Engineer Professionals"}, labels); diff != "" {
		t.Errorf("Unexpected labels (-want +got):\n%s", diff)
	}
}

// TestStructuralClusters_NumberedAfterDrops tests gapless numbering
func TestStructuralClusters_NumberedAfterDrops(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNode(companyNode("a", "Acme")).
		AddNode(companyNode("b", "Acme")).
		AddNode(companyNode("c", "Acme")).
		AddNodes("x", "y").
		Connect("a", "b").Connect("b", "c").Connect("a", "c").
		Connect("x", "y"))

	result := StructuralClusters(g, graph.Contacts{}, map[string]struct{}{"acme": {}}, DefaultConfig())

	if result.Dropped != 1 || len(result.Clusters) != 1 {
		t.Fatalf("Expected one dropped and one kept cluster, got %+v", result)
	}
	if c := result.Clusters[0]; c.ID != "cluster:1" || c.Label != "Community 1" {
		t.Errorf("Expected cluster:1 labelled Community 1, got %s %q", c.ID, c.Label)
	}
}

// TestStructuralClusters_MinClusterSize tests filtering of small groups
func TestStructuralClusters_MinClusterSize(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().AddNodes("a", "b", "c").Connect("a", "b"))
	cfg := DefaultConfig()

	if got := len(StructuralClusters(g, graph.Contacts{}, nil, cfg).Clusters); got != 2 {
		t.Errorf("Expected pair and singleton clusters, got %d", got)
	}

	cfg.MinClusterSize = 2
	result := StructuralClusters(g, graph.Contacts{}, nil, cfg)
	if len(result.Clusters) != 1 || result.Clusters[0].Size != 2 {
		t.Errorf("Expected only the pair, got %+v", result.Clusters)
	}
}

// TestReconcileCommunities_UnionNotSum tests member set union on label collision
func TestReconcileCommunities_UnionNotSum(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().AddNodes("a", "b", "c").Connect("a", "b").Connect("b", "c"))
	input := []Community{
		{ID: "cluster:1", Type: CommunityCluster, Label: " acme", Members: []string{"a", "b"}, Size: 2,
			Characteristics: CommonCharacteristics{Companies: []string{"Acme"}}},
		{ID: "company:acme", Type: CommunityCompany, Label: "Acme", Members: []string{"b", "c"}, Size: 2,
			Characteristics: CommonCharacteristics{Companies: []string{"Acme"}}},
	}

	communities, memberships := ReconcileCommunities(g, graph.Contacts{}, input)

	if len(communities) != 1 {
		t.Fatalf("Expected 1 merged community, got %d", len(communities))
	}
	merged := communities[0]
	if merged.Size != 3 {
		t.Errorf("Expected union size 3, got %d", merged.Size)
	}
	if merged.Type != CommunityCompany || merged.ID != "company:acme" || merged.Label != "Acme" {
		t.Errorf("Expected the company community to win, got %+v", merged)
	}
	if diff := cmp.Diff([]string{"Acme", "Acme"}, merged.Characteristics.Companies); diff != "" {
		t.Errorf("Expected concatenated provenance (-want +got):\n%s", diff)
	}
	if !almostEqual(merged.Density, 2.0/3.0) {
		t.Errorf("Expected recomputed density 2/3, got %f", merged.Density)
	}
	if len(memberships) != 3 {
		t.Errorf("Expected 3 memberships, got %d", len(memberships))
	}

	// The input must not be modified.
	if len(input[0].Members) != 2 || input[0].Type != CommunityCluster {
		t.Errorf("Input community was modified: %+v", input[0])
	}
}

// TestReconcileCommunities_AttributeTypeKept tests that an attribute type is not downgraded
func TestReconcileCommunities_AttributeTypeKept(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().AddNodes("a", "b"))
	input := []Community{
		{ID: "tag:ml", Type: CommunityTag, Label: "Ml", Members: []string{"a"}, Size: 1},
		{ID: "cluster:2", Type: CommunityCluster, Label: "ML", Members: []string{"b"}, Size: 1},
	}

	communities, _ := ReconcileCommunities(g, graph.Contacts{}, input)
	if len(communities) != 1 || communities[0].Type != CommunityTag || communities[0].ID != "tag:ml" {
		t.Errorf("Expected the tag community to survive, got %+v", communities)
	}
}

// TestReconcileCommunities_Memberships tests ordering and naming of the inverse index
func TestReconcileCommunities_Memberships(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNode(graph.NetworkNode{ID: "a", Name: "Node A"}).
		AddNode(graph.NetworkNode{ID: "b"}).
		AddNode(graph.NetworkNode{ID: "c", Name: "Node C"}).
		AddNode(graph.NetworkNode{ID: "d", Name: "Node D"}))
	contacts := graph.NewContacts([]graph.Contact{{ID: "c", Name: "Carol"}})
	input := []Community{
		{ID: "x", Type: CommunityCompany, Label: "X", Members: []string{"a", "b", "c"}, Size: 3},
		{ID: "y", Type: CommunityCluster, Label: "Y", Members: []string{"c"}, Size: 1},
	}

	communities, memberships := ReconcileCommunities(g, contacts, input)

	if communities[0].ID != "x" {
		t.Errorf("Expected largest community first, got %s", communities[0].ID)
	}

	var got []string
	for _, m := range memberships {
		got = append(got, m.ContactID+"="+m.ContactName)
	}
	// c has two memberships; a and b tie and keep canonical order; d has none.
	want := []string{"c=Carol", "a=Node A", "b=b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unexpected memberships (-want +got):\n%s", diff)
	}
	if refs := memberships[0].Communities; len(refs) != 2 || refs[0].CommunityID != "x" || refs[1].CommunityType != CommunityCluster {
		t.Errorf("Unexpected refs for c: %+v", refs)
	}
}

// TestDetectCommunities_Acme tests the full pipeline on the company example
func TestDetectCommunities_Acme(t *testing.T) {
	g := acmeGraph(t)
	result := DetectCommunities(g, graph.ContactsFromGraph(g), DefaultConfig())

	acme, ok := findCommunity(result.Communities, "company:acme")
	if !ok || acme.Size != 3 || !almostEqual(acme.Density, 1.0) {
		t.Fatalf("Expected Acme company community, got %+v", result.Communities)
	}
	for _, c := range result.Communities {
		if c.Type == CommunityCluster && graph.NormalizeLabel(c.Label) == "acme" {
			t.Errorf("Structural Acme cluster should have been dropped: %+v", c)
		}
	}
	if !result.Propagation.Converged {
		t.Errorf("Expected converged propagation, got %+v", result.Propagation)
	}
	for i := 1; i < len(result.Communities); i++ {
		if result.Communities[i-1].Size < result.Communities[i].Size {
			t.Errorf("Communities not sorted by size at %d", i)
		}
	}
}

// TestDetectCommunities_ContactOnlyAttributes tests that a company declared
// only on contacts still claims its structural cluster
func TestDetectCommunities_ContactOnlyAttributes(t *testing.T) {
	g := mustBuild(t, graph.NewBuilder().
		AddNodes("a", "b", "c").
		Connect("a", "b").Connect("b", "c").Connect("a", "c"))
	contacts := graph.NewContacts([]graph.Contact{
		{ID: "a", Company: "Acme"},
		{ID: "b", Company: "Acme"},
		{ID: "c", Company: "Acme"},
	})

	result := DetectCommunities(g, contacts, DefaultConfig())

	if len(result.Communities) != 1 {
		t.Fatalf("Expected only the Acme company community, got %+v", result.Communities)
	}
	acme := result.Communities[0]
	if acme.ID != "company:acme" || acme.Type != CommunityCompany || acme.Size != 3 {
		t.Errorf("Unexpected community: %+v", acme)
	}
	for _, m := range result.Memberships {
		if len(m.Communities) != 1 {
			t.Errorf("Expected %s in exactly one community, got %+v", m.ContactID, m.Communities)
		}
	}
}

// TestCommunityProperties checks determinism and thresholds over generated graphs
func TestCommunityProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	companies := []string{"Acme", "Globex", "Initech", ""}

	properties.Property("detection is idempotent", prop.ForAll(
		func(n int, pairs []int, picks []int) bool {
			g, err := randomGraph(n, pairs)
			if err != nil {
				return false
			}
			list := make([]graph.Contact, 0, n)
			for i, id := range g.IDs() {
				company := ""
				if i < len(picks) {
					company = companies[picks[i]%len(companies)]
				}
				list = append(list, graph.Contact{ID: id, Name: id, Company: company, Tags: []string{company}})
			}
			contacts := graph.NewContacts(list)

			first := DetectCommunities(g, contacts, DefaultConfig())
			second := DetectCommunities(g, contacts, DefaultConfig())
			return cmp.Equal(first, second)
		},
		gen.IntRange(1, 20),
		gen.SliceOf(gen.IntRange(0, 399)),
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("every membership points to a community containing the contact", prop.ForAll(
		func(n int, pairs []int) bool {
			g, err := randomGraph(n, pairs)
			if err != nil {
				return false
			}
			result := DetectCommunities(g, graph.ContactsFromGraph(g), DefaultConfig())
			byID := make(map[string]Community)
			for _, c := range result.Communities {
				byID[c.ID] = c
			}
			for _, m := range result.Memberships {
				if len(m.Communities) == 0 {
					return false
				}
				for _, ref := range m.Communities {
					if !contains(byID[ref.CommunityID].Members, m.ContactID) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.SliceOf(gen.IntRange(0, 399)),
	))

	properties.TestingRun(t)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TestCommunityDetectionResult_Clone tests deep copying
func TestCommunityDetectionResult_Clone(t *testing.T) {
	g := acmeGraph(t)
	result := DetectCommunities(g, graph.ContactsFromGraph(g), DefaultConfig())
	clone := result.Clone()

	if !cmp.Equal(result, clone) {
		t.Fatal("Expected clone to equal original")
	}
	clone.Communities[0].Members[0] = "mallory"
	clone.Memberships[0].Communities[0].CommunityLabel = "changed"
	if result.Communities[0].Members[0] == "mallory" || result.Memberships[0].Communities[0].CommunityLabel == "changed" {
		t.Error("Clone shares memory with the original")
	}
}
