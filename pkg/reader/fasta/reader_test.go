package fasta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRecords = `>sp|P04406|G3PDH_HUMAN Glyceraldehyde-3-phosphate dehydrogenase
MGKVKVGVNG FGRIGRLVTR
AAFNSGKVDI VAINDPFIDC

; comment line
>custom protein
MCCA
`

func TestReader(t *testing.T) {
	records, err := ReadAll(strings.NewReader(twoRecords))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "P04406", records[0].Accession)
	assert.Equal(t, "MGKVKVGVNGFGRIGRLVTRAAFNSGKVDIVAINDPFIDC", records[0].Sequence)
	assert.Equal(t, "sp|P04406|G3PDH_HUMAN Glyceraldehyde-3-phosphate dehydrogenase", records[0].Header)

	assert.Equal(t, "custom", records[1].Accession)
	assert.Equal(t, "MCCA", records[1].Sequence)

	s := records[1].Summary()
	assert.Equal(t, 4, s.Length)
	assert.Equal(t, 2, s.Cysteines)
	assert.InDelta(t, 0.44, s.MassKDa, 1e-12)
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestReaderHeaderWithoutSequence(t *testing.T) {
	records, err := ReadAll(strings.NewReader(">a\n>b\nMC\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[0].Sequence)
	assert.Equal(t, "MC", records[1].Sequence)
}

func TestReaderSequenceBeforeHeader(t *testing.T) {
	r := NewReader(strings.NewReader("MCCA\n>a\nMC\n"))
	assert.False(t, r.Next())
	assert.Error(t, r.Err())
	assert.False(t, r.Next())
}

func TestParseAccession(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"sp|P04406|G3P_HUMAN Glyceraldehyde", "P04406"},
		{">tr|A0A024R161|A0A024R161_HUMAN", "A0A024R161"},
		{"P12345 some protein", "P12345"},
		{"gi|12345|ref", "gi|12345|ref"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAccession(tt.header))
		})
	}
}
