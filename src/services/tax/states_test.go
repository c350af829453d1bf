package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Texas", "TX"},
		{"texas", "TX"},
		{"  New York ", "NY"},
		{"District of Columbia", "DC"},
		{"tx", "TX"},         // already a code
		{"Texoma", "TEXOMA"}, // unknown names pass through uppercased
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeState(c.in), c.in)
	}
}
