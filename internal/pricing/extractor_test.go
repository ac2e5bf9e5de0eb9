package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCheapest(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"scenario", "Best £350 ... Cheapest £289.50", 289.5},
		{"single", "from £42", 42},
		{"one decimal", "£19.9 and £20", 19.9},
		{"glued to words", "**£1200**return, £999.99pp", 999.99},
		{"third decimal ignored", "£10.999", 10.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCheapest(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestExtractCheapestNoMatch(t *testing.T) {
	for _, text := range []string{"", "no fares today", "$120 and €99", "£ 300"} {
		assert.Nil(t, ExtractCheapest(text), text)
	}
}

func TestExtractAllKeepsOrder(t *testing.T) {
	got := ExtractAll("£3 £1.50 £2")
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].String())
	assert.Equal(t, "1.5", got[1].String())
	assert.Equal(t, "2", got[2].String())
}
