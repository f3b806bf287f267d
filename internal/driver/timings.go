package driver

import (
	"encoding/json"

	"constlit/internal/observ"
)

// TimingPayload is the machine-readable form of the run timings.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Files   int                  `json:"files"`
	Cached  int                  `json:"cached"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// Timings summarises the timer of a run; ok is false when timings were off.
func (r *Result) Timings() (TimingPayload, bool) {
	if r == nil || r.Timer == nil {
		return TimingPayload{}, false
	}
	report := r.Timer.Report()
	payload := TimingPayload{
		Kind:    "check",
		Files:   len(r.Files),
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
	for i := range r.Files {
		if r.Files[i].Cached {
			payload.Cached++
		}
	}
	return payload, true
}

// TimingsJSON renders the timings payload.
func (r *Result) TimingsJSON() ([]byte, error) {
	payload, ok := r.Timings()
	if !ok {
		return nil, nil
	}
	return json.Marshal(payload)
}
