package ingest

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const (
	TemplateFilename    = "Project_Upload_Template.xlsx"
	TemplateContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// templateHeader uses the short aliases on purpose: they are what users type
// and the parser recognizes both forms.
var templateHeader = []any{
	"Name", "Locations", "Sector", "Category", "Year", "Status",
	"Cost", "Funding", "Beneficiaries", "Contractor", "Description",
}

var templateExample = []any{
	"Example School Block", "Tamale, Northern", "Education", "Infrastructure", "2025", "Planned",
	"50000", "MP Common Fund", "1500", "ABC Construction", "Construction of a 3-unit classroom block",
}

// BuildTemplate produces the downloadable upload template: the recognized
// header row plus one example row. Output content is stable across calls.
func BuildTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Template"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &templateHeader); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A2", &templateExample); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}
