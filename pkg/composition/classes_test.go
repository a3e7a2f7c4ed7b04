package composition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

func TestUniformClasses(t *testing.T) {
	classes, err := UniformClasses(6)
	require.NoError(t, err)

	want := []core.OxidationClass{
		{Label: "p0", Percent: 0},
		{Label: "p20", Percent: 20},
		{Label: "p40", Percent: 40},
		{Label: "p60", Percent: 60},
		{Label: "p80", Percent: 80},
		{Label: "p100", Percent: 100},
	}
	assert.Equal(t, want, classes)

	classes, err = UniformClasses(4)
	require.NoError(t, err)
	assert.Equal(t, "p33.33", classes[1].Label)
	assert.InDelta(t, 100.0/3, classes[1].Percent, 1e-12)

	classes, err = UniformClasses(1)
	require.NoError(t, err)
	assert.Equal(t, []core.OxidationClass{{Label: "p0", Percent: 0}}, classes)

	_, err = UniformClasses(0)
	assert.ErrorIs(t, err, core.ErrInvalidSearchParameters)
}

func TestCysteineClasses(t *testing.T) {
	classes, err := CysteineClasses(4)
	require.NoError(t, err)
	require.Len(t, classes, 5)
	assert.Equal(t, core.OxidationClass{Label: "ox0", Percent: 0}, classes[0])
	assert.Equal(t, core.OxidationClass{Label: "ox1", Percent: 25}, classes[1])
	assert.Equal(t, core.OxidationClass{Label: "ox4", Percent: 100}, classes[4])

	_, err = CysteineClasses(0)
	assert.ErrorIs(t, err, core.ErrInvalidSearchParameters)
}

func TestParseClasses(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []core.OxidationClass
		wantErr bool
	}{
		{
			name:  "bare percentages",
			input: "0, 50,100",
			want:  []core.OxidationClass{{Label: "p0", Percent: 0}, {Label: "p50", Percent: 50}, {Label: "p100", Percent: 100}},
		},
		{
			name:  "named",
			input: "alpha=0,beta=20",
			want:  []core.OxidationClass{{Label: "alpha", Percent: 0}, {Label: "beta", Percent: 20}},
		},
		{
			name:  "trailing comma",
			input: "12.5,",
			want:  []core.OxidationClass{{Label: "p12.5", Percent: 12.5}},
		},
		{name: "bad number", input: "0,abc", wantErr: true},
		{name: "empty", input: " , ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClasses(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
