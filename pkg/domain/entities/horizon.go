package entities

import "fmt"

// BucketUnit names the length of one planning bucket
type BucketUnit string

const (
	Day   BucketUnit = "day"
	Week  BucketUnit = "week"
	Month BucketUnit = "month"
)

// MaxHorizonBuckets is the longest horizon any planning run may span
const MaxHorizonBuckets = 10000

// Horizon is the discrete time window of a planning run
type Horizon struct {
	Buckets int        `json:"buckets" yaml:"buckets"`
	Unit    BucketUnit `json:"unit" yaml:"unit"`
}

// Contains reports whether bucket lies inside the horizon
func (h Horizon) Contains(bucket int) bool {
	return bucket >= 0 && bucket < h.Buckets
}

// Validate returns the problems with the horizon definition
func (h Horizon) Validate() []string {
	var problems []string
	if h.Buckets <= 0 {
		problems = append(problems, fmt.Sprintf("horizon must have at least one bucket, got %d", h.Buckets))
	}
	if h.Buckets > MaxHorizonBuckets {
		problems = append(problems, fmt.Sprintf("horizon cannot exceed %d buckets, got %d", MaxHorizonBuckets, h.Buckets))
	}
	switch h.Unit {
	case Day, Week, Month:
	default:
		problems = append(problems, fmt.Sprintf("unknown bucket unit %q", h.Unit))
	}
	return problems
}
