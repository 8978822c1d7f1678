// Package ledger keeps the student fee ledger: the registry of enrolled
// students and the payment rules applied to their balances.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"quest-fees/app/models"
	"quest-fees/app/storage"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("class", func(fl validator.FieldLevel) bool {
		return models.ClassName(fl.Field().String()).IsValid()
	}); err != nil {
		panic(err)
	}
	return v
}

// Registry is the in-memory view of the fee sheet. It is loaded in full from
// storage and every change is written to storage before it is applied here.
type Registry struct {
	store storage.Sheet

	mu      sync.RWMutex
	records []models.StudentRecord
	rows    []int       // storage position of each record
	index   map[int]int // admission number -> position in records
	size    int         // rows in storage, blank ones included
	version uint64      // bumped on every write
}

// NewRegistry returns an empty registry backed by store. Call Load to fill it.
func NewRegistry(store storage.Sheet) *Registry {
	return &Registry{
		store: store,
		index: make(map[int]int),
	}
}

// Load replaces the in-memory view with the current storage contents. Rows
// with every cell blank are skipped. If a student is registered or paid while
// storage is being read, the snapshot is discarded and the current view kept.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.RLock()
	version := r.version
	r.mu.RUnlock()

	rows, err := r.store.ReadAll(ctx)
	if err != nil {
		return err
	}

	records := make([]models.StudentRecord, 0, len(rows))
	positions := make([]int, 0, len(rows))
	index := make(map[int]int, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		rec, err := parseRecord(row)
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", storage.ErrStorage, storage.RowIndex(i), err)
		}
		if _, dup := index[rec.AdmissionNumber]; dup {
			return fmt.Errorf("%w: row %d: admission number %d appears twice",
				storage.ErrStorage, storage.RowIndex(i), rec.AdmissionNumber)
		}
		index[rec.AdmissionNumber] = len(records)
		records = append(records, rec)
		positions = append(positions, i)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.version != version {
		log.Println("Fee sheet changed while reloading, keeping current view")
		return nil
	}
	r.records = records
	r.rows = positions
	r.index = index
	r.size = len(rows)
	return nil
}

// Register adds a new student with nothing paid yet.
func (r *Registry) Register(ctx context.Context, reg models.Registration) (models.StudentRecord, error) {
	reg.StudentName = strings.TrimSpace(reg.StudentName)
	reg.ParentMobile = strings.TrimSpace(reg.ParentMobile)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[reg.AdmissionNumber]; exists {
		return models.StudentRecord{}, fmt.Errorf("%w: %d", ErrDuplicateAdmissionNumber, reg.AdmissionNumber)
	}
	if err := validate.Struct(reg); err != nil {
		return models.StudentRecord{}, invalidFields(err)
	}

	rec := models.NewStudentRecord(reg)
	if err := r.store.Append(ctx, rec.Values()); err != nil {
		return models.StudentRecord{}, err
	}

	r.index[rec.AdmissionNumber] = len(r.records)
	r.records = append(r.records, rec)
	r.rows = append(r.rows, r.size)
	r.size++
	r.version++
	return rec, nil
}

// Lookup returns a copy of the student's record.
func (r *Registry) Lookup(admission int) (models.StudentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[admission]
	if !ok {
		return models.StudentRecord{}, fmt.Errorf("%w: admission number %d", ErrNotFound, admission)
	}
	return r.records[pos], nil
}

// AdmissionNumbers lists admission numbers in storage order.
func (r *Registry) AdmissionNumbers() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.AdmissionNumber
	}
	return out
}

// Records returns a snapshot of every record in storage order.
func (r *Registry) Records() []models.StudentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.StudentRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// update runs fn on the student's record and writes the payment fields of the
// result through to storage. The in-memory record changes only if both fn and
// the storage write succeed.
func (r *Registry) update(ctx context.Context, admission int,
	fn func(models.StudentRecord) (models.StudentRecord, error)) (models.StudentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[admission]
	if !ok {
		return models.StudentRecord{}, fmt.Errorf("%w: admission number %d", ErrNotFound, admission)
	}

	updated, err := fn(r.records[pos])
	if err != nil {
		return models.StudentRecord{}, err
	}

	if err := r.store.UpdateFields(ctx, storage.RowIndex(r.rows[pos]), updated.PaymentFields()); err != nil {
		return models.StudentRecord{}, err
	}
	r.records[pos] = updated
	r.version++
	return updated, nil
}

func blankRow(row storage.Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func invalidFields(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field()
	}
	return fmt.Errorf("%w: please fill in all the required details (%s)", ErrInvalidInput, strings.Join(fields, ", "))
}

func parseRecord(row storage.Row) (models.StudentRecord, error) {
	admission, err := parseAmount(row[models.ColAdmissionNumber])
	if err != nil || admission <= 0 {
		return models.StudentRecord{}, fmt.Errorf("invalid admission number %q", row[models.ColAdmissionNumber])
	}
	total, err := parseAmount(row[models.ColTotalFee])
	if err != nil {
		return models.StudentRecord{}, fmt.Errorf("invalid total fee %q", row[models.ColTotalFee])
	}
	paid, err := parseAmount(row[models.ColPaidAmount])
	if err != nil {
		return models.StudentRecord{}, fmt.Errorf("invalid paid amount %q", row[models.ColPaidAmount])
	}

	remaining := total - paid
	if s := strings.TrimSpace(row[models.ColRemainingBalance]); s != "" {
		if remaining, err = parseAmount(s); err != nil {
			return models.StudentRecord{}, fmt.Errorf("invalid remaining balance %q", s)
		}
	}

	return models.StudentRecord{
		AdmissionNumber:  admission,
		StudentName:      row[models.ColStudentName],
		ParentMobile:     row[models.ColParentMobile],
		ClassName:        models.ClassName(row[models.ColClass]),
		TotalFee:         total,
		PaidAmount:       paid,
		RemainingBalance: remaining,
		PaymentHistory:   row[models.ColPaymentHistory],
		ReceiptNumber:    row[models.ColReceiptNumber],
		PaymentDate:      row[models.ColPaymentDate],
	}, nil
}

// parseAmount reads an integer cell. Blank cells count as zero.
func parseAmount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
