// Package ingest turns uploaded workbooks into validated project rows.
//
// Uploads are best-effort by design: the header row is located
// heuristically, rows missing required fields are skipped silently, and the
// caller only learns aggregate counts. What is NOT best-effort is the write:
// every valid row lands in one transaction or none do.
package ingest

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
)

// ErrNoHeader means no row in the scan window contained both "name" and
// "sector"; the workbook is not in the expected format.
var ErrNoHeader = errors.New("header row with \"name\" and \"sector\" not found")

// headerWindow bounds the header search: decorative banner rows are common
// at the top of hand-made spreadsheets, but ten rows is as deep as we look.
const headerWindow = 10

// recognizedColumns maps accepted header labels to the model field they fill.
// Aliased labels (cost/project_cost etc.) map to the same field; the first
// label present in the header wins.
var recognizedColumns = map[string]string{
	"name":              "name",
	"locations":         "locations",
	"sector":            "sector",
	"year":              "year",
	"status":            "status",
	"category":          "category",
	"community":         "community",
	"project_cost":      "project_cost",
	"cost":              "project_cost",
	"funding_source":    "funding_source",
	"funding":           "funding_source",
	"beneficiary_count": "beneficiary_count",
	"beneficiaries":     "beneficiary_count",
	"contractor":        "contractor",
	"description":       "description",
}

// Header is the located header row: its index and a field→column map.
type Header struct {
	Row  int
	Cols map[string]int
}

// FindHeader scans at most the first headerWindow rows for one whose
// lower-cased, trimmed cells include both "name" and "sector".
func FindHeader(rows [][]string) (Header, error) {
	limit := len(rows)
	if limit > headerWindow {
		limit = headerWindow
	}
	for i := 0; i < limit; i++ {
		cols := make(map[string]int)
		for idx, cell := range rows[i] {
			label := strings.ToLower(strings.TrimSpace(cell))
			field, ok := recognizedColumns[label]
			if !ok {
				continue
			}
			if _, taken := cols[field]; !taken {
				cols[field] = idx
			}
		}
		if _, hasName := cols["name"]; !hasName {
			continue
		}
		if _, hasSector := cols["sector"]; !hasSector {
			continue
		}
		return Header{Row: i, Cols: cols}, nil
	}
	return Header{}, ErrNoHeader
}

func cellAt(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// projectFromRow projects a raw row through the column map. ok is false when
// the row fails validation (empty name or sector after trimming).
func projectFromRow(row []string, cols map[string]int) (domain.Project, bool) {
	name := cellAt(row, cols, "name")
	sector := cellAt(row, cols, "sector")
	if name == "" || sector == "" {
		return domain.Project{}, false
	}

	status := strings.ToLower(cellAt(row, cols, "status"))
	if status == "" {
		status = domain.ProjectPlanned
	}
	category := strings.ToLower(cellAt(row, cols, "category"))
	if category == "" {
		category = domain.CategoryInfra
	}
	locations := cellAt(row, cols, "locations")
	community := cellAt(row, cols, "community")
	if community == "" {
		community = domain.CommunityOf(locations)
	}

	return domain.Project{
		Name:             name,
		Locations:        locations,
		Sector:           strings.ToLower(sector),
		Year:             cellAt(row, cols, "year"),
		Status:           status,
		Category:         category,
		Community:        community,
		ProjectCost:      cellAt(row, cols, "project_cost"),
		FundingSource:    cellAt(row, cols, "funding_source"),
		BeneficiaryCount: cellAt(row, cols, "beneficiary_count"),
		Contractor:       cellAt(row, cols, "contractor"),
		Description:      cellAt(row, cols, "description"),
	}, true
}

// Result is the full output contract: which rows were skipped is not
// reported, only how many.
type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	db       *gorm.DB
	projects *repo.ProjectRepo
}

func NewImporter(db *gorm.DB, projects *repo.ProjectRepo) *Importer {
	return &Importer{db: db, projects: projects}
}

// Import parses the first sheet of the uploaded workbook and inserts every
// valid row in a single transaction. A storage failure rolls the whole batch
// back; skipped rows are normal and only counted.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, ErrNoHeader
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, err
	}

	header, err := FindHeader(rows)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var batch []domain.Project
	for _, row := range rows[header.Row+1:] {
		p, ok := projectFromRow(row, header.Cols)
		if !ok {
			res.Skipped++
			continue
		}
		batch = append(batch, p)
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return im.projects.BulkInsert(tx, batch)
	})
	if err != nil {
		return Result{}, err
	}
	res.Inserted = len(batch)
	return res, nil
}
