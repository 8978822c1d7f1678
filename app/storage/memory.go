package storage

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a Sheet held in process memory.
type Memory struct {
	mu   sync.Mutex
	rows []Row
}

// NewMemory returns a sheet pre-filled with rows.
func NewMemory(rows ...Row) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.rows = append(m.rows, copyRow(r))
	}
	return m
}

func (m *Memory) ReadAll(ctx context.Context) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, copyRow(r))
	}
	return out, nil
}

func (m *Memory) Append(ctx context.Context, values []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, toRow(values))
	return nil
}

func (m *Memory) UpdateFields(ctx context.Context, rowIndex int, updates map[string]interface{}) error {
	pos, err := position(rowIndex)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if pos >= len(m.rows) {
		return fmt.Errorf("%w: row %d does not exist", ErrStorage, rowIndex)
	}
	for label := range updates {
		if _, err := ColumnLetter(label); err != nil {
			return err
		}
	}
	for label, v := range updates {
		m.rows[pos][label] = cellText(v)
	}
	return nil
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
