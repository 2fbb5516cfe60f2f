package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		in       string
		maxSplit int
		want     []string
	}{
		{"do:1:2", -1, []string{"do", "1", "2"}},
		{"ao:1:2:f32b", -1, []string{"ao", "1", "2", "f32b"}},
		{"no delimiter", -1, []string{"no delimiter"}},
		{"do::2", -1, []string{"do", "", "2"}},       // interior empty kept
		{"do:1:2:", -1, []string{"do", "1", "2"}},    // trailing empty dropped
		{"do:1:2::", -1, []string{"do", "1", "2", ""}},
		{":do:1", -1, []string{"", "do", "1"}},
		{"", -1, nil},
		{"a:b:c:d", 2, []string{"a", "b", "c:d"}},
		{"a:b:c:d", 0, []string{"a:b:c:d"}},
	}

	for _, tc := range table {
		assert.Equal(tc.want, splitFields(tc.in, ":", tc.maxSplit), "input %q", tc.in)
	}
}
