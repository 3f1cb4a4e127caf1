package basic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/opcalc/internal/registry"
)

func TestAdd(t *testing.T) {
	got, err := Add{}.Operate(3, 4)
	require.NoError(t, err)
	require.Equal(t, 7, got)
}

func TestSubtract(t *testing.T) {
	got, err := Subtract{}.Operate(10, 3)
	require.NoError(t, err)
	require.Equal(t, 7, got)

	got, err = Subtract{}.Operate(3, 10)
	require.NoError(t, err)
	require.Equal(t, -7, got)
}

func TestBasic_RegisteredViaInit(t *testing.T) {
	descs, err := registry.Builtin().Descriptors()
	require.NoError(t, err)

	names := make(map[rune]string)
	for _, d := range descs {
		names[d.Metadata.Symbol()] = d.Metadata.Name()
	}
	require.Equal(t, "add", names['+'], "add should be registered via init()")
	require.Equal(t, "subtract", names['-'], "subtract should be registered via init()")
}
