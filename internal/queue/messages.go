package queue

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// JobMessage asks workers to predict every sample of an ensemble.
type JobMessage struct {
	JobID    string             `json:"job_id"`
	Ensemble string             `json:"ensemble"`
	Weights  map[string]float64 `json:"weights,omitempty"` // flavor transition -> oscillation weight
	Shifts   map[string]float64 `json:"shifts,omitempty"`  // systematic -> shift in sigma
}

// Fingerprint hashes the job's inputs, ignoring JobID, so that resubmitted
// jobs can be recognized.
func (j JobMessage) Fingerprint() string {
	h := xxhash.New()
	h.WriteString(j.Ensemble)
	for _, m := range []map[string]float64{j.Weights, j.Shifts} {
		h.WriteString("|")
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.WriteString(k)
			h.WriteString("=")
			h.WriteString(strconv.FormatFloat(m[k], 'g', -1, 64))
			h.WriteString(";")
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// ResultMessage carries one sample's signal and background interior bins.
type ResultMessage struct {
	JobID      string    `json:"job_id"`
	Ensemble   string    `json:"ensemble"`
	Sample     string    `json:"sample"`
	SampleID   uint32    `json:"sample_id"`
	POT        float64   `json:"pot"`
	Signal     []float64 `json:"signal,omitempty"`
	Background []float64 `json:"background,omitempty"`
	Error      string    `json:"error,omitempty"`
}
