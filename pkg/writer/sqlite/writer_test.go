package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/RedoxBlot/pkg/blot"
	"github.com/ChrisMcGann/RedoxBlot/pkg/calibration"
	"github.com/ChrisMcGann/RedoxBlot/pkg/composition"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/filter"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteoform"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteome"
	"github.com/ChrisMcGann/RedoxBlot/pkg/solutionspace"
)

func openWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "redox.db")
	w, err := NewWriter(path)
	require.NoError(t, err)
	return w, path
}

func queryInt(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestWriterRoundTrip(t *testing.T) {
	w, path := openWriter(t)

	markers := []core.MarkerPoint{
		{WeightKDa: 250, Pixel: 10},
		{WeightKDa: 100, Pixel: 90},
		{WeightKDa: 25, Pixel: 200},
	}
	model, err := calibration.Fit(markers)
	require.NoError(t, err)
	calID, err := w.WriteCalibration(model, markers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calID)

	classes, err := composition.UniformClasses(6)
	require.NoError(t, err)
	res, err := composition.NewSolver().Search(context.Background(), classes, 10, 20, composition.DefaultTolerance)
	require.NoError(t, err)
	require.Len(t, res.Compositions, 30)
	_, err = w.WriteSearch(classes, 10, 20, composition.DefaultTolerance, res)
	require.NoError(t, err)

	th, err := solutionspace.FindMinimumMoleculeCount(1000, 6)
	require.NoError(t, err)
	require.NoError(t, w.WriteThreshold(6, 1000, th))

	mapper, err := blot.NewMapper(model)
	require.NoError(t, err)
	bands, err := mapper.Simulate(36.85, 3, 5)
	require.NoError(t, err)
	require.NoError(t, w.WriteBands("P04406", bands))

	forms, err := proteoform.Matrix(context.Background(), 3)
	require.NoError(t, err)
	require.NoError(t, w.WriteProteoforms(forms))

	report, err := proteome.Amenability([]core.ProteinSummary{
		{Accession: "A", Cysteines: 2, MassKDa: 40},
		{Accession: "B", Cysteines: 2, MassKDa: 190},
	}, filter.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, w.WriteAmenability(report))

	require.NoError(t, w.Close())
	// A second close is a no-op
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{"calibrations", "SELECT COUNT(*) FROM CalibrationTable", 1},
		{"markers", "SELECT COUNT(*) FROM MarkerTable WHERE CalibrationId = 1", 3},
		{"searches", "SELECT Solutions FROM SearchTable WHERE SearchId = 1", 30},
		{"candidates", "SELECT Candidates FROM SearchTable WHERE SearchId = 1", 3003},
		{"composition rows", "SELECT COUNT(*) FROM CompositionTable", 180},
		{"compositions", "SELECT COUNT(DISTINCT CompositionId) FROM CompositionTable", 30},
		{"trace", "SELECT COUNT(*) FROM SolutionSpaceTable", int64(len(th.Trace))},
		{"threshold", "SELECT MoleculeCount FROM SolutionSpaceTable WHERE Threshold", 8},
		{"bands", "SELECT COUNT(*) FROM BandTable WHERE Accession = 'P04406'", 4},
		{"proteoforms", "SELECT COUNT(*) FROM ProteoformTable", 8},
		{"amenability", "SELECT Measurable FROM AmenabilityTable WHERE Class = '2'", 1},
		{"header", "SELECT COUNT(*) FROM HeaderTable", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryInt(t, db, tt.query))
		})
	}

	var size string
	require.NoError(t, db.QueryRow("SELECT SpaceSize FROM SolutionSpaceTable WHERE Threshold").Scan(&size))
	assert.Equal(t, "1287", size)

	var state string
	require.NoError(t, db.QueryRow("SELECT State FROM ProteoformTable WHERE ProteoformId = 2").Scan(&state))
	assert.Equal(t, "100", state)

	var avg float64
	require.NoError(t, db.QueryRow("SELECT WeightedAverage FROM CompositionTable LIMIT 1").Scan(&avg))
	assert.InDelta(t, 20, avg, 1e-6)
}

func TestWriterEmptySearch(t *testing.T) {
	w, path := openWriter(t)

	classes := []core.OxidationClass{{Label: "a", Percent: 0}, {Label: "b", Percent: 100}}
	res, err := composition.NewSolver().Search(context.Background(), classes, 3, 50, composition.DefaultTolerance)
	require.NoError(t, err)
	require.Empty(t, res.Compositions)

	_, err = w.WriteSearch(classes, 3, 50, composition.DefaultTolerance, res)
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, int64(1), queryInt(t, db, "SELECT COUNT(*) FROM SearchTable"))
	assert.Equal(t, int64(2), queryInt(t, db, "SELECT ClassCount FROM SearchTable"))
	assert.Equal(t, int64(4), queryInt(t, db, "SELECT Candidates FROM SearchTable"))
	assert.Equal(t, int64(0), queryInt(t, db, "SELECT COUNT(*) FROM CompositionTable"))
}

func TestWriterAppendsToExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "redox.db")
	markers := []core.MarkerPoint{{WeightKDa: 250, Pixel: 10}, {WeightKDa: 25, Pixel: 200}}
	model, err := calibration.Fit(markers)
	require.NoError(t, err)

	proteins := []core.ProteinSummary{
		core.Summarize("P1", "MCCK"),
		{Accession: "custom", Length: 100, Cysteines: 2, MassKDa: 11},
	}

	for run := 1; run <= 2; run++ {
		w, err := NewWriter(path)
		require.NoError(t, err, "run %d", run)

		calID, err := w.WriteCalibration(model, markers)
		require.NoError(t, err, "run %d", run)
		assert.Equal(t, int64(run), calID)

		protID, err := w.WriteProtein(proteins[run-1])
		require.NoError(t, err, "run %d", run)
		assert.Equal(t, int64(run), protID)

		require.NoError(t, w.Close())
	}

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, int64(2), queryInt(t, db, "SELECT COUNT(*) FROM CalibrationTable"))
	assert.Equal(t, int64(4), queryInt(t, db, "SELECT COUNT(DISTINCT MarkerId) FROM MarkerTable"))
	assert.Equal(t, int64(2), queryInt(t, db, "SELECT COUNT(*) FROM MarkerTable WHERE CalibrationId = 2"))
	assert.Equal(t, int64(2), queryInt(t, db, "SELECT COUNT(*) FROM HeaderTable"))

	var mono sql.NullFloat64
	require.NoError(t, db.QueryRow("SELECT MonoisotopicMassDa FROM ProteinTable WHERE ProteinId = 1").Scan(&mono))
	assert.True(t, mono.Valid)
	assert.InDelta(t, proteins[0].MonoisotopicMassDa, mono.Float64, 1e-9)

	require.NoError(t, db.QueryRow("SELECT MonoisotopicMassDa FROM ProteinTable WHERE ProteinId = 2").Scan(&mono))
	assert.False(t, mono.Valid)
}
