package adapter

import "context"

// Progress receives progress reports from model-level extraction.
// IsCanceled is polled only between top-level units.
type Progress interface {
	SubTask(label string)
	Worked(units int)
	IsCanceled() bool
}

// NopProgress ignores reports and is never canceled
type NopProgress struct{}

func (NopProgress) SubTask(string)   {}
func (NopProgress) Worked(int)       {}
func (NopProgress) IsCanceled() bool { return false }

// ContextProgress is canceled once its context is done
type ContextProgress struct {
	ctx context.Context
}

// NewContextProgress creates a progress sink tied to ctx
func NewContextProgress(ctx context.Context) *ContextProgress {
	return &ContextProgress{ctx: ctx}
}

func (p *ContextProgress) SubTask(string) {}
func (p *ContextProgress) Worked(int)     {}

// IsCanceled reports whether the context is done
func (p *ContextProgress) IsCanceled() bool {
	return p.ctx.Err() != nil
}
