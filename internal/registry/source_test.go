package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/opcalc/internal/operation"
)

type failingSource struct{ err error }

func (f failingSource) Descriptors() ([]Descriptor, error) { return nil, f.err }

func TestStaticSource_ReturnsCopy(t *testing.T) {
	src := StaticSource{{Metadata: meta('+', "add"), Factory: constFactory(1)}}

	descs, err := src.Descriptors()
	require.NoError(t, err)
	descs[0].Metadata = meta('-', "sub")

	again, _ := src.Descriptors()
	require.Equal(t, '+', again[0].Metadata.Symbol())
}

func TestFilterSource(t *testing.T) {
	inner := StaticSource{
		{Metadata: meta('+', "add"), Factory: constFactory(1)},
		{Metadata: meta('-', "subtract"), Factory: constFactory(2)},
		{Metadata: meta('%', "mod"), Factory: constFactory(3)},
	}

	tests := []struct {
		name  string
		allow []string
		want  []rune
	}{
		{name: "empty allow keeps all", allow: nil, want: []rune{'+', '-', '%'}},
		{name: "by name", allow: []string{"mod"}, want: []rune{'%'}},
		{name: "by symbol", allow: []string{"-"}, want: []rune{'-'}},
		{name: "mixed keeps source order", allow: []string{"%", "add"}, want: []rune{'+', '%'}},
		{name: "no match", allow: []string{"pow"}, want: []rune{}},
		{name: "blank keys ignored", allow: []string{""}, want: []rune{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := FilterSource{Inner: inner, Allow: tt.allow}.Descriptors()
			require.NoError(t, err)
			got := make([]rune, 0, len(descs))
			for _, d := range descs {
				got = append(got, d.Metadata.Symbol())
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSource_Strict(t *testing.T) {
	inner := StaticSource{
		{Metadata: meta('+', "add"), Factory: constFactory(1)},
		{Metadata: meta('%', "mod"), Factory: constFactory(3)},
	}

	descs, err := FilterSource{Inner: inner, Allow: []string{"add", "%"}, Strict: true}.Descriptors()
	require.NoError(t, err)
	require.Len(t, descs, 2)

	_, err = FilterSource{Inner: inner, Allow: []string{"add", "ad"}, Strict: true}.Descriptors()
	require.ErrorIs(t, err, ErrUnknownSelector)
	require.ErrorContains(t, err, `"ad"`)

	descs, err = FilterSource{Inner: inner, Strict: true}.Descriptors()
	require.NoError(t, err)
	require.Len(t, descs, 2, "empty allow list keeps everything even when strict")
}

func TestFilterSource_PropagatesError(t *testing.T) {
	boom := errors.New("scan failed")
	_, err := FilterSource{Inner: failingSource{err: boom}, Allow: []string{"+"}}.Descriptors()
	require.ErrorIs(t, err, boom)
}

func TestProvide_AppearsInBuiltin(t *testing.T) {
	sym := '☃'
	Provide(meta(sym, "snowman"), constFactory(7))

	descs, err := Builtin().Descriptors()
	require.NoError(t, err)

	found := false
	for _, d := range descs {
		if d.Metadata.Symbol() == sym {
			found = true
		}
	}
	require.True(t, found, "provided descriptor should appear in the builtin catalog")
}

func TestProvide_NilFactoryPanics(t *testing.T) {
	require.Panics(t, func() {
		Provide(meta('x', "x"), nil)
	})
}

func TestCompose_RegistersInOrder(t *testing.T) {
	r := New()
	err := Compose(r,
		StaticSource{{Metadata: meta('+', "add"), Factory: constFactory(1)}},
		StaticSource{
			{Metadata: meta('-', "sub"), Factory: constFactory(2)},
			{Metadata: meta('+', "late-add"), Factory: constFactory(3)},
		},
	)
	require.NoError(t, err)

	entries := r.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "add", entries[0].Metadata.Name())
	require.Equal(t, "sub", entries[1].Metadata.Name())
	require.Equal(t, "late-add", entries[2].Metadata.Name())

	op, err := r.Resolve('+')
	require.NoError(t, err)
	got, _ := op.Operate(0, 0)
	require.Equal(t, 1, got)
}

func TestCompose_SourceError(t *testing.T) {
	boom := errors.New("plugin dir unreadable")
	err := Compose(New(), failingSource{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestCompose_DuplicateRejected(t *testing.T) {
	r := New(WithRejectDuplicates())
	err := Compose(r, StaticSource{
		{Metadata: meta('+', "a"), Factory: constFactory(1)},
		{Metadata: meta('+', "b"), Factory: constFactory(2)},
	})
	require.ErrorIs(t, err, ErrDuplicateSymbol)
}

func TestMatches(t *testing.T) {
	m := operation.NewMetadata('%', "mod", "")
	require.True(t, Matches(m, []string{"mod"}))
	require.True(t, Matches(m, []string{"%"}))
	require.False(t, Matches(m, []string{"add", "+"}))
	require.False(t, Matches(m, nil))
}
