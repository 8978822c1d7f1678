package storage

import (
	"context"
	"fmt"

	"quest-fees/app/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet is the fee sheet kept in a Google Sheets tab. Row 1 holds the
// column labels; ReadAll keys every following row by them.
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	tab           string
}

// NewGoogleSheet connects to the spreadsheet tab. Pass option.WithCredentialsJSON
// or option.WithCredentialsFile for a service account.
func NewGoogleSheet(ctx context.Context, spreadsheetID, tab string, opts ...option.ClientOption) (*GoogleSheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is required", ErrStorage)
	}
	if tab == "" {
		tab = "Sheet1"
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, wrap("sheets client", err)
	}

	return &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, tab: tab}, nil
}

func (g *GoogleSheet) ReadAll(ctx context.Context) ([]Row, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.tab).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrap("sheets get", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := make([]string, len(resp.Values[0]))
	for i, h := range resp.Values[0] {
		header[i] = cellText(h)
	}

	rows := make([]Row, 0, len(resp.Values)-1)
	for _, values := range resp.Values[1:] {
		row := make(Row, len(header))
		for i, label := range header {
			if label == "" {
				continue
			}
			if i < len(values) {
				row[label] = cellText(values[i])
			} else {
				row[label] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *GoogleSheet) Append(ctx context.Context, values []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, g.tab, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return wrap("sheets append", err)
}

// UpdateFields writes every field as its own cell range in one batch call.
func (g *GoogleSheet) UpdateFields(ctx context.Context, rowIndex int, updates map[string]interface{}) error {
	if _, err := position(rowIndex); err != nil {
		return err
	}
	for label := range updates {
		if _, err := ColumnLetter(label); err != nil {
			return err
		}
	}
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, label := range models.Columns {
		v, ok := updates[label]
		if !ok {
			continue
		}
		col, _ := ColumnLetter(label)
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", g.tab, col, rowIndex),
			Values: [][]interface{}{{v}},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: "RAW", Data: data}
	_, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return wrap("sheets batch update", err)
}

// EnsureHeader writes the column labels into row 1 when the tab is empty.
func (g *GoogleSheet) EnsureHeader(ctx context.Context) (bool, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.tab+"!1:1").Context(ctx).Do()
	if err != nil {
		return false, wrap("sheets get header", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return false, nil
	}

	header := make([]interface{}, len(models.Columns))
	for i, col := range models.Columns {
		header[i] = col
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{header}}
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, g.tab+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return false, wrap("sheets write header", err)
	}
	return true, nil
}
