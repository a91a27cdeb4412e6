package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		page, size        int
		wantFrom, wantLim int
	}{
		{1, 10, 0, 10},
		{3, 20, 40, 20},
		{0, 5, 0, 5},
		{2, 0, 10, 10},
		{2, 500, 10, 10},
	}
	for _, tc := range cases {
		from, limit := Calculate(tc.page, tc.size)
		assert.Equal(t, tc.wantFrom, from, "page=%d size=%d", tc.page, tc.size)
		assert.Equal(t, tc.wantLim, limit, "page=%d size=%d", tc.page, tc.size)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 4, ParseIntDefault("4", 1))
	assert.Equal(t, 1, ParseIntDefault("", 1))
	assert.Equal(t, 1, ParseIntDefault("four", 1))
}
