package tarot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpreadLayouts(t *testing.T) {
	tests := []struct {
		spreadType SpreadType
		size       int
		positions  []string
	}{
		{SpreadSingle, 1, []string{"Present"}},
		{SpreadThreeCard, 3, []string{"Past", "Present", "Future"}},
		{SpreadCelticCross, 10, nil},
		{SpreadHorseshoe, 7, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.spreadType), func(t *testing.T) {
			spread, err := NewSpread(tt.spreadType)
			require.NoError(t, err)
			assert.Equal(t, tt.size, spread.Size())
			for i, p := range spread.Positions {
				assert.Equal(t, i, p.Index)
				assert.NotEmpty(t, p.Name)
			}
			if tt.positions != nil {
				names := make([]string, len(spread.Positions))
				for i, p := range spread.Positions {
					names[i] = p.Name
				}
				assert.Equal(t, tt.positions, names)
			}
		})
	}
}

func TestNewSpreadUnknownType(t *testing.T) {
	_, err := NewSpread("pentagram")
	var unknown *UnknownSpreadError
	require.ErrorAs(t, err, &unknown)
}

func TestNewCustomSpread(t *testing.T) {
	spread, err := NewCustomSpread([]string{"Situation", "Obstacle", "Advice", "Outcome"})
	require.NoError(t, err)
	assert.Equal(t, SpreadCustom, spread.Type)
	assert.Equal(t, 4, spread.Size())

	_, err = NewCustomSpread(nil)
	assert.Error(t, err)
}
