package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "turno", NormalizeColumnName("  Turno \t"))
	assert.Equal(t, "m² retido", NormalizeColumnName("M² Retido"))
}

func TestStringify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Forno 10", "Forno 10"},
		{10.0, "10"},
		{12.5, "12.5"},
		{13, "13"},
		{int64(11), "11"},
		{true, "True"},
		{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "2024-03-15 00:00:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Stringify(c.in), "Stringify(%#v)", c.in)
	}
}
