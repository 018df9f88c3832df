// Package trace provides routing-decision recording for partitioned topologies.
// It depends on nothing in sim/ and stores pure data types.
package trace

// RoutingRecord captures a single shortest-queue routing decision.
type RoutingRecord struct {
	JobID   int64   `json:"job_id" yaml:"job_id"`
	Clock   float64 `json:"t" yaml:"t"`
	Chosen  int     `json:"chosen" yaml:"chosen"`
	Lengths []int   `json:"lengths" yaml:"lengths"` // per-partition length at decision time
	Ties    int     `json:"ties" yaml:"ties"`       // partitions sharing the minimum length
}

// Excess returns how far the chosen partition's length exceeded the minimum
// length at decision time. Shortest-queue routing always yields 0.
func (r RoutingRecord) Excess() int {
	if len(r.Lengths) == 0 {
		return 0
	}
	minLen := r.Lengths[0]
	for _, l := range r.Lengths[1:] {
		if l < minLen {
			minLen = l
		}
	}
	return r.Lengths[r.Chosen] - minLen
}
