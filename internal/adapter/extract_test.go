package adapter

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptkit/internal/domain"
)

func TestExtract_TextImageInterleaving(t *testing.T) {
	text := newFake("text", ".txt")
	image := newFake("image", ".png")
	tree := domain.NewComposite("root",
		leaf("file:///a.txt"),
		leaf("file:///b.png"),
		leaf("file:///c.txt"),
	)

	set := NewResolver(sourceOf(text, image)).Resolve(tree)
	got := NewExtractor().Extract(context.Background(), tree, set)

	assert.Equal(t, []string{"text:a.txt", "image:b.png", "text:c.txt"}, texts(got))
}

func TestExtract_InvokesAdaptersInSetOrder(t *testing.T) {
	first := newFake("first", ".dat")
	second := newFake("second", ".dat")

	got := NewExtractor().Extract(context.Background(), leaf("file:///x.dat"), NewSet(second, first))
	assert.Equal(t, []string{"second:x.dat", "first:x.dat"}, texts(got))
}

func TestExtract_InactiveSubtreeIsPruned(t *testing.T) {
	text := newFake("text", ".txt")
	set := NewSet(text)

	off := domain.NewComposite("off",
		leaf("file:///hidden1.txt"),
		domain.NewComposite("deeper", leaf("file:///hidden2.txt")),
	)
	off.Active = false
	offLeaf := leaf("file:///hidden3.txt")
	offLeaf.Active = false

	tree := domain.NewComposite("root", leaf("file:///a.txt"), off, offLeaf, leaf("file:///b.txt"))

	got := NewExtractor().Extract(context.Background(), tree, set)
	assert.Equal(t, []string{"text:a.txt", "text:b.txt"}, texts(got))
	assert.Equal(t, []string{"/a.txt", "/b.txt"}, text.extractCalls)

	root := domain.NewComposite("root", leaf("file:///a.txt"))
	root.Active = false
	assert.Empty(t, NewExtractor().Extract(context.Background(), root, set))
}

func TestExtract_ConcatenationOrderOnNestedTree(t *testing.T) {
	set := NewSet(newFake("text", ".txt"), newFake("image", ".png"))
	a := domain.NewComposite("A",
		leaf("file:///a1.txt"),
		domain.NewComposite("A2",
			leaf("file:///a2.png"),
			domain.NewComposite("A3", leaf("file:///a3.txt"), leaf("file:///a4.png")),
		),
	)
	b := domain.NewComposite("B",
		domain.NewComposite("B1", leaf("file:///b1.png")),
		leaf("file:///b2.txt"),
	)
	root := domain.NewComposite("root", a, b)

	ex := NewExtractor()
	ctx := context.Background()
	want := append(texts(ex.Extract(ctx, a, set)), texts(ex.Extract(ctx, b, set))...)
	got := texts(ex.Extract(ctx, root, set))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("concatenation mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"text:a1.txt", "image:a2.png", "text:a3.txt", "image:a4.png", "image:b1.png", "text:b2.txt",
	}, got)
}

func TestExtract_MalformedURIDoesNotSuppressSiblings(t *testing.T) {
	text := newFake("text", ".txt")
	tree := domain.NewComposite("root", leaf("://bad-uri.txt"), leaf("file:///good.txt"))

	got := NewExtractor().Extract(context.Background(), tree, NewSet(text))
	assert.Equal(t, []string{"text:good.txt"}, texts(got))
}

func TestExtract_AdapterFailureIsNotFatal(t *testing.T) {
	text := newFake("text", ".txt")
	text.fail = "broken.txt"
	other := newFake("other", ".txt")
	tree := domain.NewComposite("root", leaf("file:///broken.txt"), leaf("file:///ok.txt"))

	got := NewExtractor().Extract(context.Background(), tree, NewSet(text, other))
	assert.Equal(t, []string{"other:broken.txt", "text:ok.txt", "other:ok.txt"}, texts(got))
}

func TestExtract_DuplicatesArePreserved(t *testing.T) {
	text := newFake("text", ".txt")
	tree := domain.NewComposite("root", leaf("file:///same.txt"), leaf("file:///same.txt"))

	got := NewExtractor().Extract(context.Background(), tree, NewSet(text))
	assert.Equal(t, []string{"text:same.txt", "text:same.txt"}, texts(got))
}

func TestExtract_EmptySet(t *testing.T) {
	assert.Empty(t, NewExtractor().Extract(context.Background(), leaf("file:///a.txt"), NewSet()))
	assert.Empty(t, NewExtractor().Extract(context.Background(), nil, NewSet(newFake("t", ".txt"))))
}

func TestExtractModel_Units(t *testing.T) {
	set := NewSet(newFake("text", ".txt"))
	skipped := domain.NewComposite("skipped", leaf("file:///s.txt"))
	skipped.Active = false
	model := &domain.VariantsModel{Variants: []*domain.Variant{
		domain.NewComposite("v1", leaf("file:///a.txt")),
		skipped,
		leaf("file:///unnamed.txt"),
	}}
	progress := &recordingProgress{}

	units, canceled := NewExtractor().ExtractModel(context.Background(), model, set, progress)

	assert.False(t, canceled)
	require.Len(t, units, 2)
	assert.Equal(t, "v1", units[0].Variant.Name)
	assert.Equal(t, []string{"text:a.txt"}, texts(units[0].Elements))
	assert.Equal(t, []string{"text:unnamed.txt"}, texts(units[1].Elements))
	assert.Equal(t, []string{"Adapting: v1", "Adapting: file:///unnamed.txt"}, progress.labels)
	assert.Equal(t, 2, progress.worked)
}

func TestExtractModel_CancellationAfterSecondUnit(t *testing.T) {
	text := newFake("text", ".txt")
	model := &domain.VariantsModel{Variants: []*domain.Variant{
		domain.NewComposite("v1", leaf("file:///v1.txt")),
		domain.NewComposite("v2", leaf("file:///v2.txt")),
		domain.NewComposite("v3", leaf("file:///v3.txt")),
	}}
	progress := &recordingProgress{cancelAfter: 2}

	units, canceled := NewExtractor().ExtractModel(context.Background(), model, NewSet(text), progress)

	assert.True(t, canceled)
	require.Len(t, units, 2)
	assert.Equal(t, []string{"text:v1.txt"}, texts(units[0].Elements))
	assert.Equal(t, []string{"text:v2.txt"}, texts(units[1].Elements))
	assert.NotContains(t, text.extractCalls, "/v3.txt")
	assert.Equal(t, []string{"Adapting: v1", "Adapting: v2"}, progress.labels)
}

func TestExtractModel_ContextProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	model := &domain.VariantsModel{Variants: []*domain.Variant{leaf("file:///a.txt"), leaf("file:///b.txt")}}

	cancel()
	units, canceled := NewExtractor().ExtractModel(ctx, model, NewSet(newFake("text", ".txt")), NewContextProgress(ctx))

	assert.True(t, canceled)
	assert.Len(t, units, 1, "the unit in flight completes before the check")
}

func TestExtractModel_CanceledUnitIsComplete(t *testing.T) {
	text := newFake("text", ".txt")
	text.abortOnCancel = true
	model := &domain.VariantsModel{Variants: []*domain.Variant{
		domain.NewComposite("v1", leaf("file:///a.txt"), leaf("file:///b.txt"), leaf("file:///c.txt")),
		domain.NewComposite("v2", leaf("file:///d.txt")),
	}}

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			ex := NewExtractor()
			ex.Workers = workers
			units, canceled := ex.ExtractModel(ctx, model, NewSet(text), NewContextProgress(ctx))

			assert.True(t, canceled)
			require.Len(t, units, 1)
			assert.Equal(t, []string{"text:a.txt", "text:b.txt", "text:c.txt"}, texts(units[0].Elements))
		})
	}
}

func TestExtractModel_CanceledGoLeafIsComplete(t *testing.T) {
	path := writeFile(t, t.TempDir(), "decls.go", "package decls\n\nfunc A() {}\n\nfunc B() {}\n")
	goAdapter := newTestAdapter(t, GoRegistration)
	model := &domain.VariantsModel{Variants: []*domain.Variant{
		domain.NewComposite("src", leaf(fileURI(t, path).String())),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	units, canceled := NewExtractor().ExtractModel(ctx, model, NewSet(goAdapter), NewContextProgress(ctx))

	assert.True(t, canceled)
	require.Len(t, units, 1)
	assert.Equal(t, []string{"func A", "func B"}, texts(units[0].Elements))
}

func TestExtractModel_NilProgress(t *testing.T) {
	model := &domain.VariantsModel{Variants: []*domain.Variant{leaf("file:///a.txt")}}
	units, canceled := NewExtractor().ExtractModel(context.Background(), model, NewSet(newFake("text", ".txt")), nil)

	assert.False(t, canceled)
	assert.Len(t, units, 1)
}

func TestExtract_ParallelMatchesSequential(t *testing.T) {
	set := NewSet(newFake("text", ".txt"), newFake("image", ".png"))

	var groups []*domain.Variant
	for g := 0; g < 5; g++ {
		var leaves []*domain.Variant
		for i := 0; i < 8; i++ {
			ext := ".txt"
			if i%3 == 0 {
				ext = ".png"
			}
			l := leaf(fmt.Sprintf("file:///g%d/f%d%s", g, i, ext))
			l.Active = i != 5
			leaves = append(leaves, l)
		}
		groups = append(groups, domain.NewComposite(fmt.Sprintf("g%d", g), leaves...))
	}
	tree := domain.NewComposite("root", groups...)

	sequential := NewExtractor()
	parallel := NewExtractor()
	parallel.Workers = 4

	want := texts(sequential.Extract(context.Background(), tree, set))
	got := texts(parallel.Extract(context.Background(), tree, set))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parallel order mismatch (-sequential +parallel):\n%s", diff)
	}
	assert.Len(t, got, 35)
}
