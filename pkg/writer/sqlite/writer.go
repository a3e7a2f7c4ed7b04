// Package sqlite provides SQLite database writing for redox analysis results
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/RedoxBlot/pkg/blot"
	"github.com/ChrisMcGann/RedoxBlot/pkg/calibration"
	"github.com/ChrisMcGann/RedoxBlot/pkg/composition"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteome"
	"github.com/ChrisMcGann/RedoxBlot/pkg/solutionspace"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Date format for MaintenanceTable
	maintenanceDateFormat = "2006 01 02"
	// Schema version written to HeaderTable
	schemaVersion = 1
)

// Writer handles writing analysis records to SQLite database files
type Writer struct {
	db         *sql.DB
	outputPath string
	stmts      map[string]*sql.Stmt
	nextID     map[string]int64
	records    int
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		stmts:      make(map[string]*sql.Stmt),
		nextID:     make(map[string]int64),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		w.closeStatements()
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS CalibrationTable (
		CalibrationId INTEGER PRIMARY KEY,
		Slope DOUBLE,
		Intercept DOUBLE,
		RSquared DOUBLE,
		MarkerCount INTEGER
	);

	CREATE TABLE IF NOT EXISTS MarkerTable (
		MarkerId INTEGER PRIMARY KEY,
		CalibrationId INTEGER REFERENCES CalibrationTable(CalibrationId),
		WeightKDa DOUBLE,
		Pixel DOUBLE,
		Residual DOUBLE
	);

	CREATE TABLE IF NOT EXISTS SearchTable (
		SearchId INTEGER PRIMARY KEY,
		MoleculeCount INTEGER,
		ClassCount INTEGER,
		Target DOUBLE,
		Tolerance DOUBLE,
		Candidates INTEGER,
		Solutions INTEGER
	);

	CREATE TABLE IF NOT EXISTS CompositionTable (
		CompositionId INTEGER,
		SearchId INTEGER REFERENCES SearchTable(SearchId),
		ClassIndex INTEGER,
		ClassLabel TEXT,
		Percent DOUBLE,
		Count INTEGER,
		WeightedAverage DOUBLE,
		PRIMARY KEY (CompositionId, ClassIndex)
	);

	CREATE TABLE IF NOT EXISTS SolutionSpaceTable (
		TraceId INTEGER PRIMARY KEY,
		ClassCount INTEGER,
		MoleculeCount INTEGER,
		SpaceSize TEXT,
		Target DOUBLE,
		Threshold BOOL
	);

	CREATE TABLE IF NOT EXISTS BandTable (
		BandId INTEGER PRIMARY KEY,
		Accession TEXT,
		Label TEXT,
		Oxidised INTEGER,
		Proteoforms TEXT,
		OxidationPercent DOUBLE,
		ReducedPercent DOUBLE,
		WeightKDa DOUBLE,
		Pixel DOUBLE,
		Intensity DOUBLE
	);

	CREATE TABLE IF NOT EXISTS ProteoformTable (
		ProteoformId INTEGER PRIMARY KEY,
		Sites INTEGER,
		Oxidised INTEGER,
		State TEXT
	);

	CREATE TABLE IF NOT EXISTS AmenabilityTable (
		ClassId INTEGER PRIMARY KEY,
		Class TEXT,
		Total INTEGER,
		Measurable INTEGER,
		Percent DOUBLE
	);

	CREATE TABLE IF NOT EXISTS ProteinTable (
		ProteinId INTEGER PRIMARY KEY,
		Accession TEXT,
		Length INTEGER,
		Cysteines INTEGER,
		MassKDa DOUBLE,
		MonoisotopicMassDa DOUBLE
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		LastModifiedDate TEXT,
		Description TEXT
	);

	CREATE TABLE IF NOT EXISTS MaintenanceTable (
		CreationDate TEXT,
		NoofRecords INTEGER,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	queries := map[string]string{
		"calibration": `INSERT INTO CalibrationTable (CalibrationId, Slope, Intercept, RSquared, MarkerCount)
			VALUES (?, ?, ?, ?, ?)`,
		"marker": `INSERT INTO MarkerTable (MarkerId, CalibrationId, WeightKDa, Pixel, Residual)
			VALUES (?, ?, ?, ?, ?)`,
		"search": `INSERT INTO SearchTable (SearchId, MoleculeCount, ClassCount, Target, Tolerance, Candidates, Solutions)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"composition": `INSERT INTO CompositionTable (CompositionId, SearchId, ClassIndex, ClassLabel, Percent, Count, WeightedAverage)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"space": `INSERT INTO SolutionSpaceTable (TraceId, ClassCount, MoleculeCount, SpaceSize, Target, Threshold)
			VALUES (?, ?, ?, ?, ?, ?)`,
		"band": `INSERT INTO BandTable (BandId, Accession, Label, Oxidised, Proteoforms,
			OxidationPercent, ReducedPercent, WeightKDa, Pixel, Intensity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"proteoform": `INSERT INTO ProteoformTable (ProteoformId, Sites, Oxidised, State)
			VALUES (?, ?, ?, ?)`,
		"amenability": `INSERT INTO AmenabilityTable (ClassId, Class, Total, Measurable, Percent)
			VALUES (?, ?, ?, ?, ?)`,
		"protein": `INSERT INTO ProteinTable (ProteinId, Accession, Length, Cysteines, MassKDa, MonoisotopicMassDa)
			VALUES (?, ?, ?, ?, ?, ?)`,
	}

	for name, query := range queries {
		stmt, err := w.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s statement: %w", name, err)
		}
		w.stmts[name] = stmt
	}

	return w.seedIDs()
}

// idColumns maps each statement to the table and id column it fills
var idColumns = map[string][2]string{
	"calibration": {"CalibrationTable", "CalibrationId"},
	"marker":      {"MarkerTable", "MarkerId"},
	"search":      {"SearchTable", "SearchId"},
	"composition": {"CompositionTable", "CompositionId"},
	"space":       {"SolutionSpaceTable", "TraceId"},
	"band":        {"BandTable", "BandId"},
	"proteoform":  {"ProteoformTable", "ProteoformId"},
	"amenability": {"AmenabilityTable", "ClassId"},
	"protein":     {"ProteinTable", "ProteinId"},
}

// seedIDs continues the id sequences of a database that already holds rows
func (w *Writer) seedIDs() error {
	for name, col := range idColumns {
		var next int64
		query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) + 1 FROM %s", col[1], col[0])
		if err := w.db.QueryRow(query).Scan(&next); err != nil {
			return fmt.Errorf("failed to read next %s: %w", col[1], err)
		}
		w.nextID[name] = next
	}
	return nil
}

// id returns the next row id of a table and advances the counter
func (w *Writer) id(name string) int64 {
	id := w.nextID[name]
	w.nextID[name]++
	return id
}

// WriteCalibration writes a fitted model and the markers it was fitted on.
// Returns the CalibrationId of the new row.
func (w *Writer) WriteCalibration(model core.CalibrationModel, markers []core.MarkerPoint) (int64, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	calID := w.id("calibration")
	if _, err := tx.Stmt(w.stmts["calibration"]).Exec(
		calID, model.Slope, model.Intercept, model.RSquared, len(markers),
	); err != nil {
		return 0, fmt.Errorf("failed to insert calibration: %w", err)
	}

	residuals := calibration.Residuals(markers, model)
	markerStmt := tx.Stmt(w.stmts["marker"])
	for i, m := range markers {
		if _, err := markerStmt.Exec(w.id("marker"), calID, m.WeightKDa, m.Pixel, residuals[i]); err != nil {
			return 0, fmt.Errorf("failed to insert marker %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit calibration: %w", err)
	}
	w.records++
	return calID, nil
}

// WriteSearch writes the parameters and outcome of a composition search.
// Each composition becomes one row per class. Returns the SearchId.
func (w *Writer) WriteSearch(classes []core.OxidationClass, total int, target, tolerance float64, res *composition.Result) (int64, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	searchID := w.id("search")
	if _, err := tx.Stmt(w.stmts["search"]).Exec(
		searchID, total, len(classes), target, tolerance, res.Candidates, len(res.Compositions),
	); err != nil {
		return 0, fmt.Errorf("failed to insert search: %w", err)
	}

	compStmt := tx.Stmt(w.stmts["composition"])
	for _, c := range res.Compositions {
		compID := w.id("composition")
		avg := c.WeightedAverage()
		for i, n := range c.Counts {
			cl := c.Classes[i]
			if _, err := compStmt.Exec(compID, searchID, i, cl.Label, cl.Percent, n, avg); err != nil {
				return 0, fmt.Errorf("failed to insert composition %d: %w", compID, err)
			}
		}
		w.records++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit search: %w", err)
	}
	return searchID, nil
}

// WriteThreshold writes every step of a threshold search. The final step is
// flagged as the threshold.
func (w *Writer) WriteThreshold(classCount int, target float64, th *solutionspace.Threshold) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := tx.Stmt(w.stmts["space"])
	for _, p := range th.Trace {
		final := p.MoleculeCount == th.MoleculeCount
		if _, err := stmt.Exec(w.id("space"), classCount, p.MoleculeCount, p.SpaceSize.String(), target, final); err != nil {
			return fmt.Errorf("failed to insert trace point %d: %w", p.MoleculeCount, err)
		}
		w.records++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trace: %w", err)
	}
	return nil
}

// WriteProtein writes the summary of a protein. A zero monoisotopic mass
// (no sequence known) is stored as NULL. Returns the ProteinId.
func (w *Writer) WriteProtein(p core.ProteinSummary) (int64, error) {
	var mono interface{}
	if p.MonoisotopicMassDa > 0 {
		mono = p.MonoisotopicMassDa
	}
	id := w.id("protein")
	if _, err := w.stmts["protein"].Exec(id, p.Accession, p.Length, p.Cysteines, p.MassKDa, mono); err != nil {
		return 0, fmt.Errorf("failed to insert protein %s: %w", p.Accession, err)
	}
	w.records++
	return id, nil
}

// WriteBands writes the simulated bands of one protein
func (w *Writer) WriteBands(accession string, bands []blot.Band) error {
	for _, b := range bands {
		_, err := w.stmts["band"].Exec(
			w.id("band"),
			accession,
			b.Label,
			b.Oxidised,
			b.Proteoforms.String(), // May exceed int64
			b.OxidationPercent,
			b.ReducedPercent,
			b.WeightKDa,
			b.Pixel,
			b.Intensity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert band %s: %w", b.Label, err)
		}
		w.records++
	}
	return nil
}

// WriteProteoforms writes proteoform state vectors in the given order
func (w *Writer) WriteProteoforms(proteoforms []core.Proteoform) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := tx.Stmt(w.stmts["proteoform"])
	for _, p := range proteoforms {
		if _, err := stmt.Exec(w.id("proteoform"), len(p), p.Oxidised(), p.String()); err != nil {
			return fmt.Errorf("failed to insert proteoform %s: %w", p, err)
		}
		w.records++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit proteoforms: %w", err)
	}
	return nil
}

// WriteAmenability writes the per-class shares of an amenability report
func (w *Writer) WriteAmenability(report *proteome.Report) error {
	for _, c := range report.Classes {
		if _, err := w.stmts["amenability"].Exec(w.id("amenability"), c.Class, c.Total, c.Measurable, c.Percent); err != nil {
			return fmt.Errorf("failed to insert class %s: %w", c.Class, err)
		}
		w.records++
	}
	return nil
}

func (w *Writer) closeStatements() {
	for name, stmt := range w.stmts {
		stmt.Close()
		delete(w.stmts, name)
	}
}

// Finalize writes the header and maintenance tables and closes the database
func (w *Writer) Finalize() error {
	if w.db == nil {
		return nil
	}

	now := time.Now()

	// Write HeaderTable
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, LastModifiedDate, Description)
		VALUES (?, ?, ?, ?)
	`, schemaVersion, now.Format(headerDateFormat), now.Format(headerDateFormat), "redoxblot")
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Write MaintenanceTable
	_, err = w.db.Exec(`
		INSERT INTO MaintenanceTable (CreationDate, NoofRecords, Description)
		VALUES (?, ?, ?)
	`, now.Format(maintenanceDateFormat), w.records, "")
	if err != nil {
		return fmt.Errorf("failed to insert maintenance: %w", err)
	}

	w.closeStatements()

	// Close database
	err = w.db.Close()
	w.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
