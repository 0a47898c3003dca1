package algorithms

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-netanalytics/pkg/validation"
)

// ScoringWeights are the coefficients of the influence score.
type ScoringWeights struct {
	Degree      float64 `yaml:"degree" mapstructure:"degree" json:"degree"`
	Betweenness float64 `yaml:"betweenness" mapstructure:"betweenness" json:"betweenness"`
	Clustering  float64 `yaml:"clustering" mapstructure:"clustering" json:"clustering"`
	Eigenvector float64 `yaml:"eigenvector" mapstructure:"eigenvector" json:"eigenvector"`
}

// Sum returns the total weight.
func (w ScoringWeights) Sum() float64 {
	return w.Degree + w.Betweenness + w.Clustering + w.Eigenvector
}

// Config holds every fixed constant used by the analytics passes.
type Config struct {
	// Weights combine centrality measures into one influence score.
	Weights ScoringWeights `yaml:"weights" mapstructure:"weights" json:"weights"`

	// EigenvectorTolerance stops power iteration once the largest per-node
	// change drops below it.
	EigenvectorTolerance float64 `yaml:"eigenvector_tolerance" mapstructure:"eigenvector_tolerance" json:"eigenvector_tolerance"`
	// EigenvectorMaxIterations caps power iteration.
	EigenvectorMaxIterations int `yaml:"eigenvector_max_iterations" mapstructure:"eigenvector_max_iterations" json:"eigenvector_max_iterations"`

	// Minimum group sizes for attribute communities.
	MinCompanySize     int `yaml:"min_company_size" mapstructure:"min_company_size" json:"min_company_size"`
	MinAffiliationSize int `yaml:"min_affiliation_size" mapstructure:"min_affiliation_size" json:"min_affiliation_size"`
	MinTagSize         int `yaml:"min_tag_size" mapstructure:"min_tag_size" json:"min_tag_size"`

	// MaxPropagationPasses bounds label propagation. Hitting the bound is
	// reported as a non-converged run.
	MaxPropagationPasses int `yaml:"max_propagation_passes" mapstructure:"max_propagation_passes" json:"max_propagation_passes"`
	// MinClusterSize drops structural clusters smaller than this.
	MinClusterSize int `yaml:"min_cluster_size" mapstructure:"min_cluster_size" json:"min_cluster_size"`
	// OrganizationShare is the share a company or affiliation must exceed to
	// name a structural cluster.
	OrganizationShare float64 `yaml:"organization_share" mapstructure:"organization_share" json:"organization_share"`
	// KeywordShare is the share a position keyword must exceed to name a
	// structural cluster.
	KeywordShare float64 `yaml:"keyword_share" mapstructure:"keyword_share" json:"keyword_share"`
	// MinKeywordLength is the shortest position token considered a keyword.
	MinKeywordLength int `yaml:"min_keyword_length" mapstructure:"min_keyword_length" json:"min_keyword_length"`

	// Workers splits betweenness sources across goroutines. 1 runs inline.
	Workers int `yaml:"workers" mapstructure:"workers" json:"workers"`
}

// DefaultConfig returns the standard analytics configuration.
func DefaultConfig() Config {
	return Config{
		Weights: ScoringWeights{
			Degree:      0.30,
			Betweenness: 0.40,
			Clustering:  0.15,
			Eigenvector: 0.15,
		},
		EigenvectorTolerance:     1e-6,
		EigenvectorMaxIterations: 100,
		MinCompanySize:           2,
		MinAffiliationSize:       2,
		MinTagSize:               3,
		MaxPropagationPasses:     10,
		MinClusterSize:           1,
		OrganizationShare:        0.30,
		KeywordShare:             0.25,
		MinKeywordLength:         4,
		Workers:                  1,
	}
}

// Validate checks that every constant is usable.
func (c Config) Validate() error {
	return validation.NewConfigValidator("AnalyticsConfig").
		NonNegativeFloat("Weights.Degree", c.Weights.Degree).
		NonNegativeFloat("Weights.Betweenness", c.Weights.Betweenness).
		NonNegativeFloat("Weights.Clustering", c.Weights.Clustering).
		NonNegativeFloat("Weights.Eigenvector", c.Weights.Eigenvector).
		Custom("Weights", func() error {
			if sum := c.Weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
				return fmt.Errorf("weights must sum to 1, got %g", sum)
			}
			return nil
		}).
		PositiveFloat("EigenvectorTolerance", c.EigenvectorTolerance).
		Positive("EigenvectorMaxIterations", c.EigenvectorMaxIterations).
		MinInt("MinCompanySize", c.MinCompanySize, 1).
		MinInt("MinAffiliationSize", c.MinAffiliationSize, 1).
		MinInt("MinTagSize", c.MinTagSize, 1).
		Positive("MaxPropagationPasses", c.MaxPropagationPasses).
		MinInt("MinClusterSize", c.MinClusterSize, 1).
		RangeFloat("OrganizationShare", c.OrganizationShare, 0, 1).
		RangeFloat("KeywordShare", c.KeywordShare, 0, 1).
		MinInt("MinKeywordLength", c.MinKeywordLength, 1).
		RangeInt("Workers", c.Workers, 1, 256).
		Validate()
}
