package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions        int
	TiedDecisions         int // decisions where more than one partition had the minimum length
	NonMinimalDecisions   int // decisions whose chosen partition was longer than the minimum
	MaxExcess             int
	UniqueTargets         int
	PartitionDistribution map[int]int // partition index → count of jobs routed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PartitionDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Routings)
	for _, r := range st.Routings {
		summary.PartitionDistribution[r.Chosen]++
		if r.Ties > 1 {
			summary.TiedDecisions++
		}
		if ex := r.Excess(); ex > 0 {
			summary.NonMinimalDecisions++
			if ex > summary.MaxExcess {
				summary.MaxExcess = ex
			}
		}
	}

	summary.UniqueTargets = len(summary.PartitionDistribution)

	return summary
}
