package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHunkIDDeterministic(t *testing.T) {
	lines := []Line{
		{Kind: LineContext, Content: "ctx\n"},
		{Kind: LineAdded, Content: "added\n"},
	}
	a := NewHunkID("example.txt", 3, 4, lines)
	b := NewHunkID("example.txt", 3, 4, lines)
	require.Equal(t, a, b)
}

func TestHunkIDSensitiveToBody(t *testing.T) {
	a := NewHunkID("example.txt", 3, 4, []Line{{Kind: LineAdded, Content: "added\n"}})
	b := NewHunkID("example.txt", 3, 4, []Line{{Kind: LineAdded, Content: "different\n"}})
	require.NotEqual(t, a, b)

	// Same text, opposite direction.
	c := NewHunkID("example.txt", 3, 4, []Line{{Kind: LineRemoved, Content: "added\n"}})
	require.NotEqual(t, a, c)
}

func TestHunkIDSensitiveToPathAndAnchors(t *testing.T) {
	lines := []Line{{Kind: LineAdded, Content: "added\n"}}
	base := NewHunkID("example.txt", 3, 4, lines)
	require.NotEqual(t, base, NewHunkID("other.txt", 3, 4, lines))
	require.NotEqual(t, base, NewHunkID("example.txt", 5, 4, lines))
}
