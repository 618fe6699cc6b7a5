package model

// Report is the full outcome of one generation run, handed to exporters.
type Report struct {
	ProjectName string
	GeneratedAt string

	Server ServerConfig

	// Requests in discovery order. Entries whose Request is nil degraded
	// and also appear in Skipped.
	Requests []*EndpointRequest

	Skipped []SkippedUnit

	// Results holds execution outcomes parallel to Requests when the run
	// executed requests; nil otherwise.
	Results []*RequestResult
}

// SkippedByClass tallies skipped units per failure class.
func (r *Report) SkippedByClass() map[FailureClass]int {
	counts := map[FailureClass]int{}
	for _, s := range r.Skipped {
		counts[s.Class]++
	}
	return counts
}

// VerbCounts tallies synthesized requests per HTTP verb.
func (r *Report) VerbCounts() map[Verb]int {
	counts := map[Verb]int{}
	for _, er := range r.Requests {
		if er.Request != nil {
			counts[er.Request.Verb]++
		}
	}
	return counts
}

// Synthesized returns only the entries that produced a request.
func (r *Report) Synthesized() []*EndpointRequest {
	var out []*EndpointRequest
	for _, er := range r.Requests {
		if er.Request != nil {
			out = append(out, er)
		}
	}
	return out
}
