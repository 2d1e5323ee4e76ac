package plan

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/benjaminschreck/go-compose/pkg/compose"
)

// ReadSheet reads a worksheet as a header row followed by body rows. An empty
// sheet name selects the first sheet. Short rows are padded to the header
// width; long rows are kept so the table shape check reports them.
func ReadSheet(path, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, compose.NewIOError("open spreadsheet", path, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, emptySheet(path, sheet)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, &compose.ConfigurationError{
			Code:    compose.CodeInvalidConfig,
			Message: fmt.Sprintf("cannot read sheet %q of %s", sheet, path),
			Block:   -1,
			Cause:   err,
		}
	}

	var kept [][]string
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) == 0 {
		return nil, nil, emptySheet(path, sheet)
	}

	header := kept[0]
	body := make([][]string, 0, len(kept)-1)
	for _, row := range kept[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		body = append(body, row)
	}

	logger := compose.GetLogger("plan")
	logger.Debug().
		Str("path", path).
		Str("sheet", sheet).
		Int("columns", len(header)).
		Int("rows", len(body)).
		Msg("Sheet loaded")
	return header, body, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func emptySheet(path, sheet string) error {
	return &compose.ShapeError{
		Code:    compose.CodeEmptyTable,
		Message: fmt.Sprintf("sheet %q of %s has no rows", sheet, path),
		Block:   -1,
		Row:     -1,
	}
}
