// Package storage holds the tabular backends behind the fee sheet.
//
// Every backend speaks the same contract as a spreadsheet tab: rows are read
// in full, appended in the fixed column order, and updated cell by cell using
// the spreadsheet's own row numbering (1-based, header on row 1).
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quest-fees/app/models"
)

// HeaderRows is the number of rows above the first student row.
const HeaderRows = 1

// ErrStorage wraps every failure reported by a backend.
var ErrStorage = errors.New("storage error")

// Row is one record keyed by column label. Values are kept as text.
type Row map[string]string

// Sheet is the storage collaborator used by the registry and the ledger.
type Sheet interface {
	ReadAll(ctx context.Context) ([]Row, error)
	Append(ctx context.Context, values []interface{}) error
	UpdateFields(ctx context.Context, rowIndex int, updates map[string]interface{}) error
}

// RowIndex converts a 0-based record position into the sheet's row number.
func RowIndex(position int) int {
	return position + HeaderRows + 1
}

// position is the inverse of RowIndex.
func position(rowIndex int) (int, error) {
	pos := rowIndex - HeaderRows - 1
	if pos < 0 {
		return 0, fmt.Errorf("%w: row %d is not a data row", ErrStorage, rowIndex)
	}
	return pos, nil
}

// ColumnLetter returns the A1-notation letter of a column label.
func ColumnLetter(label string) (string, error) {
	for i, col := range models.Columns {
		if col == label {
			return string(rune('A' + i)), nil
		}
	}
	return "", fmt.Errorf("%w: unknown column %q", ErrStorage, label)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// cellText renders a cell value the way a spreadsheet would display it.
func cellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	default:
		return fmt.Sprint(t)
	}
}

func toRow(values []interface{}) Row {
	row := make(Row, len(models.Columns))
	for i, col := range models.Columns {
		if i < len(values) {
			row[col] = cellText(values[i])
		} else {
			row[col] = ""
		}
	}
	return row
}
