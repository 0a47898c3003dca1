package algorithms

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// positionStopWords are position tokens too generic to name a cluster.
var positionStopWords = map[string]struct{}{
	"and":       {},
	"the":       {},
	"with":      {},
	"from":      {},
	"senior":    {},
	"junior":    {},
	"staff":     {},
	"lead":      {},
	"head":      {},
	"chief":     {},
	"principal": {},
	"associate": {},
	"assistant": {},
	"intern":    {},
	"former":    {},
	"team":      {},
}

// maxIndustryKeywords bounds the keyword provenance kept per cluster.
const maxIndustryKeywords = 5

// countEntry is a value with how many members carry it.
type countEntry struct {
	Value string
	Count int
}

// groupProfile summarises the declared attributes of a node group.
type groupProfile struct {
	size         int
	companies    []countEntry
	affiliations []countEntry
	keywords     []countEntry
}

// profileGroup tallies companies, affiliations and position keywords of
// members, resolved the same way as for attribute communities. Each member
// contributes a keyword at most once.
func profileGroup(g *graph.NetworkGraph, contacts graph.Contacts, members []int, minKeywordLength int) groupProfile {
	companies := make(map[string]int)
	affiliations := make(map[string]int)
	keywords := make(map[string]int)

	for _, m := range members {
		attrs := resolveAttributes(g, contacts, m)
		if strings.TrimSpace(attrs.company) != "" {
			companies[attrs.company]++
		}
		if strings.TrimSpace(attrs.affiliation) != "" {
			affiliations[attrs.affiliation]++
		}
		for _, kw := range positionKeywords(attrs.position, minKeywordLength) {
			keywords[kw]++
		}
	}

	return groupProfile{
		size:         len(members),
		companies:    rankCounts(companies),
		affiliations: rankCounts(affiliations),
		keywords:     rankCounts(keywords),
	}
}

// dominantOrganization returns the most common company or affiliation and its
// count. A company wins ties against an affiliation.
func (p groupProfile) dominantOrganization() (string, int) {
	var company, affiliation countEntry
	if len(p.companies) > 0 {
		company = p.companies[0]
	}
	if len(p.affiliations) > 0 {
		affiliation = p.affiliations[0]
	}
	if company.Count >= affiliation.Count {
		return company.Value, company.Count
	}
	return affiliation.Value, affiliation.Count
}

func (p groupProfile) dominantKeyword() (string, int) {
	if len(p.keywords) == 0 {
		return "", 0
	}
	return p.keywords[0].Value, p.keywords[0].Count
}

func (p groupProfile) share(count int) float64 {
	if p.size == 0 {
		return 0
	}
	return float64(count) / float64(p.size)
}

func (p groupProfile) characteristics() CommonCharacteristics {
	c := CommonCharacteristics{
		Companies:    countValues(p.companies, 0),
		Affiliations: countValues(p.affiliations, 0),
	}
	c.IndustryKeywords = countValues(p.keywords, maxIndustryKeywords)
	return c
}

// positionKeywords splits a position into distinct lowercase tokens of at
// least minLength runes, dropping stop-words.
func positionKeywords(position string, minLength int) []string {
	tokens := strings.FieldsFunc(strings.ToLower(position), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minLength {
			continue
		}
		if _, stop := positionStopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// rankCounts orders values by count descending, then lexicographically.
func rankCounts(counts map[string]int) []countEntry {
	out := make([]countEntry, 0, len(counts))
	for v, c := range counts {
		out = append(out, countEntry{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func countValues(entries []countEntry, limit int) []string {
	if len(entries) == 0 {
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
