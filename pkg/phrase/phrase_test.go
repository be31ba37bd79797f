package phrase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_Contains(t *testing.T) {
	set, err := NewSet([]string{"creó este grupo", "añadió a", "cambió los ajustes"})
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"exact phrase", "creó este grupo", true},
		{"phrase inside text", "Se creó este grupo", true},
		{"second phrase", "Ana añadió a Luis", true},
		{"case sensitive", "SE CREÓ ESTE GRUPO", false},
		{"no phrase", "hola a todos", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, set.Contains(tt.text))
		})
	}
}

func TestSet_FoldCase(t *testing.T) {
	set, err := NewSet([]string{"sticker omitido", "<Multimedia omitido>"}, WithFoldCase())
	require.NoError(t, err)

	require.True(t, set.Contains("STICKER OMITIDO"))
	require.True(t, set.Contains("<multimedia omitido>"))
	require.False(t, set.Contains("sticker"))
}

func TestSet_Find(t *testing.T) {
	set, err := NewSet([]string{"video omitido", "audio omitido"})
	require.NoError(t, err)

	found := set.Find("audio omitido y video omitido")
	require.ElementsMatch(t, []string{"audio omitido", "video omitido"}, found)
	require.Empty(t, set.Find(""))
}

func TestNewSet_Empty(t *testing.T) {
	_, err := NewSet(nil)
	require.ErrorIs(t, err, ErrNoPhrases)

	_, err = NewSet([]string{"", ""})
	require.ErrorIs(t, err, ErrNoPhrases)
}

func TestNewSet_Duplicates(t *testing.T) {
	set, err := NewSet([]string{"added", "added", "ADDED"}, WithFoldCase())
	require.NoError(t, err)
	require.Equal(t, []string{"added"}, set.Find("Ana Added Luis"))
}
