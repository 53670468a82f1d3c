package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetsForSource(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		decode     bool
		wantNames  []string
		wantDecode []bool
	}{
		{
			name:       "musdb only",
			source:     SourceMusdb,
			decode:     true,
			wantNames:  []string{"musdb18"},
			wantDecode: []bool{true},
		},
		{
			name:       "medleydb only",
			source:     SourceMedleydb,
			decode:     true,
			wantNames:  []string{"medleydb"},
			wantDecode: []bool{false},
		},
		{
			name:       "both in fetch order",
			source:     SourceBoth,
			decode:     false,
			wantNames:  []string{"musdb18", "medleydb"},
			wantDecode: []bool{false, false},
		},
		{
			name:       "decode never applies to medleydb",
			source:     SourceBoth,
			decode:     true,
			wantNames:  []string{"musdb18", "medleydb"},
			wantDecode: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			datasets, err := DatasetsForSource(tt.source, "1117372", "3677432", tt.decode)

			require.NoError(t, err)
			require.Len(t, datasets, len(tt.wantNames))

			for i, ds := range datasets {
				assert.Equal(t, tt.wantNames[i], ds.Name)
				assert.Equal(t, tt.wantDecode[i], ds.Decode)
				assert.NotEmpty(t, ds.RecordID)
				assert.NotEmpty(t, ds.Patterns)
			}
		})
	}
}

func TestDatasetsForSource_RecordIDs(t *testing.T) {
	datasets, err := DatasetsForSource(SourceBoth, "111", "222", false)

	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "111", datasets[0].RecordID)
	assert.Equal(t, "222", datasets[1].RecordID)
}

func TestDatasetsForSource_Unknown(t *testing.T) {
	_, err := DatasetsForSource("spotify", "111", "222", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "spotify"`)
}
