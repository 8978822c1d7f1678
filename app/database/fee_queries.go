package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"quest-fees/app/models"
	"quest-fees/app/storage"

	"github.com/lib/pq"
)

// feeColumns maps sheet column labels to student_fees columns
var feeColumns = map[string]string{
	models.ColAdmissionNumber:  "admission_number",
	models.ColStudentName:      "student_name",
	models.ColParentMobile:     "parent_mobile",
	models.ColClass:            "class",
	models.ColTotalFee:         "total_fee",
	models.ColPaidAmount:       "paid_amount",
	models.ColRemainingBalance: "remaining_balance",
	models.ColPaymentHistory:   "payment_history",
	models.ColReceiptNumber:    "receipt_number",
	models.ColPaymentDate:      "payment_date",
}

// FeeSheet stores the fee sheet in the student_fees table. Row order is the
// insertion order (row_id), so sheet row numbers stay stable.
type FeeSheet struct {
	db *sql.DB
}

// NewFeeSheet wraps an open database handle
func NewFeeSheet(db *sql.DB) *FeeSheet {
	return &FeeSheet{db: db}
}

// ReadAll returns every student row in insertion order
func (s *FeeSheet) ReadAll(ctx context.Context) ([]storage.Row, error) {
	query := `SELECT admission_number, student_name, parent_mobile, class, total_fee,
			  paid_amount, remaining_balance, payment_history, receipt_number, payment_date
			  FROM student_fees
			  ORDER BY row_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read student_fees: %v", storage.ErrStorage, err)
	}
	defer rows.Close()

	var out []storage.Row
	for rows.Next() {
		var admission, totalFee, paid, remaining int64
		var name, mobile, class string
		var history, receipt, paymentDate sql.NullString

		if err := rows.Scan(&admission, &name, &mobile, &class, &totalFee,
			&paid, &remaining, &history, &receipt, &paymentDate); err != nil {
			return nil, fmt.Errorf("%w: failed to scan student_fees row: %v", storage.ErrStorage, err)
		}

		out = append(out, storage.Row{
			models.ColAdmissionNumber:  fmt.Sprint(admission),
			models.ColStudentName:      name,
			models.ColParentMobile:     mobile,
			models.ColClass:            class,
			models.ColTotalFee:         fmt.Sprint(totalFee),
			models.ColPaidAmount:       fmt.Sprint(paid),
			models.ColRemainingBalance: fmt.Sprint(remaining),
			models.ColPaymentHistory:   history.String,
			models.ColReceiptNumber:    receipt.String,
			models.ColPaymentDate:      paymentDate.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate student_fees: %v", storage.ErrStorage, err)
	}

	return out, nil
}

// Append inserts a row given in models.Columns order
func (s *FeeSheet) Append(ctx context.Context, values []interface{}) error {
	if len(values) != len(models.Columns) {
		return fmt.Errorf("%w: expected %d values, got %d", storage.ErrStorage, len(models.Columns), len(values))
	}

	cols := make([]string, len(models.Columns))
	placeholders := make([]string, len(models.Columns))
	for i, label := range models.Columns {
		cols[i] = feeColumns[label]
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO student_fees (%s) VALUES (%s)`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("%w: admission number already stored: %v", storage.ErrStorage, err)
		}
		return fmt.Errorf("%w: failed to insert student: %v", storage.ErrStorage, err)
	}
	return nil
}

// UpdateFields rewrites the named cells of the row at rowIndex (sheet numbering)
func (s *FeeSheet) UpdateFields(ctx context.Context, rowIndex int, updates map[string]interface{}) error {
	offset := rowIndex - storage.HeaderRows - 1
	if offset < 0 {
		return fmt.Errorf("%w: row %d is not a data row", storage.ErrStorage, rowIndex)
	}
	if len(updates) == 0 {
		return nil
	}

	labels := make([]string, 0, len(updates))
	for label := range updates {
		if _, ok := feeColumns[label]; !ok {
			return fmt.Errorf("%w: unknown column %q", storage.ErrStorage, label)
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	sets := make([]string, len(labels))
	args := make([]interface{}, 0, len(labels)+1)
	for i, label := range labels {
		sets[i] = fmt.Sprintf("%s = $%d", feeColumns[label], i+1)
		args = append(args, updates[label])
	}
	args = append(args, offset)

	query := fmt.Sprintf(`UPDATE student_fees SET %s
			  WHERE row_id = (SELECT row_id FROM student_fees ORDER BY row_id OFFSET $%d LIMIT 1)`,
		strings.Join(sets, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: failed to update row %d: %v", storage.ErrStorage, rowIndex, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		return fmt.Errorf("%w: row %d does not exist", storage.ErrStorage, rowIndex)
	}
	return nil
}
