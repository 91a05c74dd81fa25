package envutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("PYPI_URL", "https://pypi.example.org")

	var cases = []struct {
		in   string
		want string
	}{
		{
			"${PYPI_URL}",
			"https://pypi.example.org",
		},
		{
			"${PYPI_URL}/simple/",
			"https://pypi.example.org/simple/",
		},
		{
			"no substitution",
			"no substitution",
		},
		{
			"${NOT_SET_ANYWHERE}",
			"",
		},
	}

	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			assert.EqualValues(t, tt.want, ExpandEnv(tt.in))
		})
	}
}
