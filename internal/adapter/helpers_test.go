package adapter

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"adaptkit/internal/domain"
)

// ============================================================================
// Test Fakes
// ============================================================================

type fakeElement struct {
	kind domain.ElementKind
	text string
}

func (e fakeElement) Kind() domain.ElementKind { return e.kind }
func (e fakeElement) Text() string             { return e.text }

// fakeAdapter matches URIs by path suffix and emits one element per leaf
type fakeAdapter struct {
	id     string
	suffix string
	kind   domain.ElementKind
	fail   string // path suffix that makes Extract fail
	// abortOnCancel makes Extract fail when its context is done
	abortOnCancel bool

	mu              sync.Mutex
	applicableCalls []string
	extractCalls    []string
}

func newFake(id, suffix string) *fakeAdapter {
	return &fakeAdapter{id: id, suffix: suffix, kind: domain.ElementKind(id + ".item")}
}

func (f *fakeAdapter) ID() string { return f.id }

func (f *fakeAdapter) IsApplicable(uri *url.URL) bool {
	f.mu.Lock()
	f.applicableCalls = append(f.applicableCalls, uri.Path)
	f.mu.Unlock()
	return strings.HasSuffix(uri.Path, f.suffix)
}

func (f *fakeAdapter) Extract(ctx context.Context, uri *url.URL) ([]domain.Element, error) {
	f.mu.Lock()
	f.extractCalls = append(f.extractCalls, uri.Path)
	f.mu.Unlock()

	if f.abortOnCancel && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if f.fail != "" && strings.HasSuffix(uri.Path, f.fail) {
		return nil, errors.New("malformed input")
	}
	if !strings.HasSuffix(uri.Path, f.suffix) {
		return nil, nil
	}
	return []domain.Element{fakeElement{kind: f.kind, text: f.id + ":" + Base(uri)}}, nil
}

func (f *fakeAdapter) registration() Registration {
	return Registration{
		Descriptor: Descriptor{ID: f.id, Name: strings.ToUpper(f.id), Kinds: []domain.ElementKind{f.kind}},
		Factory:    func(map[string]any) (Adapter, error) { return f, nil },
	}
}

// fakeSource is a fixed adapter universe that counts fetches
type fakeSource struct {
	adapters []Adapter
	calls    int
}

func (s *fakeSource) Adapters() []Adapter {
	s.calls++
	return s.adapters
}

func sourceOf(adapters ...Adapter) *fakeSource {
	return &fakeSource{adapters: adapters}
}

// recordingProgress records reports and cancels once cancelAfter units are worked
type recordingProgress struct {
	labels      []string
	worked      int
	cancelAfter int
}

func (p *recordingProgress) SubTask(label string) { p.labels = append(p.labels, label) }
func (p *recordingProgress) Worked(units int)     { p.worked += units }
func (p *recordingProgress) IsCanceled() bool {
	return p.cancelAfter > 0 && p.worked >= p.cancelAfter
}

// ============================================================================
// Test Helpers
// ============================================================================

func leaf(uri string) *domain.Variant {
	return domain.NewLeaf("", uri)
}

func texts(elements []domain.Element) []string {
	out := make([]string, len(elements))
	for i, el := range elements {
		out[i] = el.Text()
	}
	return out
}

func fileURI(t *testing.T, path string) *url.URL {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
}

func newTestAdapter(t *testing.T, registration func(*SourceReader) Registration) Adapter {
	t.Helper()
	return newTestAdapterWith(t, registration, nil)
}

func newTestAdapterWith(t *testing.T, registration func(*SourceReader) Registration, settings map[string]any) Adapter {
	t.Helper()
	src, err := NewSourceReader(8)
	require.NoError(t, err)
	a, err := registration(src).Factory(settings)
	require.NoError(t, err)
	return a
}
