package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/.config/opcalc/history.db", want: filepath.Join(home, ".config", "opcalc", "history.db")},
		{in: "~other/x", want: "~other/x"},
		{in: "/abs/./path", want: "/abs/path"},
		{in: "rel/../debug.log", want: "debug.log"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}
