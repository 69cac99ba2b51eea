package domain

import "time"

// Report is the outcome of one model-level extraction run
type Report struct {
	ID         int64        `json:"id,omitempty" yaml:"id,omitempty"`
	Model      string       `json:"model" yaml:"model"`
	Adapters   []string     `json:"adapters" yaml:"adapters"`
	Units      []UnitReport `json:"units" yaml:"units"`
	Canceled   bool         `json:"canceled" yaml:"canceled"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time    `json:"finished_at" yaml:"finished_at"`
}

// UnitReport holds the elements extracted from one root variant
type UnitReport struct {
	Variant  string          `json:"variant" yaml:"variant"`
	Elements []ElementRecord `json:"elements" yaml:"elements"`
}

// NewReport creates an empty report for the named model
func NewReport(model string) *Report {
	return &Report{
		Model:     model,
		Adapters:  make([]string, 0),
		Units:     make([]UnitReport, 0),
		StartedAt: time.Now(),
	}
}

// ElementCount returns the total number of elements across all units
func (r *Report) ElementCount() int {
	total := 0
	for _, u := range r.Units {
		total += len(u.Elements)
	}
	return total
}

// CountByKind tallies elements per kind
func (r *Report) CountByKind() map[ElementKind]int {
	counts := make(map[ElementKind]int)
	for _, u := range r.Units {
		for _, el := range u.Elements {
			counts[el.Type]++
		}
	}
	return counts
}

// Duration returns how long the run took
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary condenses the report for listings
func (r *Report) Summary() RunSummary {
	return RunSummary{
		ID:         r.ID,
		Model:      r.Model,
		Units:      len(r.Units),
		Elements:   r.ElementCount(),
		Canceled:   r.Canceled,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// RunSummary is a stored run without its elements
type RunSummary struct {
	ID         int64     `json:"id" yaml:"id"`
	Model      string    `json:"model" yaml:"model"`
	Units      int       `json:"units" yaml:"units"`
	Elements   int       `json:"elements" yaml:"elements"`
	Canceled   bool      `json:"canceled" yaml:"canceled"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
