package ledger

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"quest-fees/app/models"
	"quest-fees/app/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march15 = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func newStudent(admission, totalFee int) models.StudentRecord {
	return models.NewStudentRecord(models.Registration{
		AdmissionNumber: admission,
		StudentName:     "Asha Rao",
		ParentMobile:    "9876543210",
		ClassName:       models.Class3,
		TotalFee:        totalFee,
	})
}

func TestApplyPaymentTermWise(t *testing.T) {
	rec := newStudent(7, 5000)

	updated, receipt, err := ApplyPayment(rec, models.PaymentRequest{
		Type:    models.PaymentTermWise,
		Periods: []string{"I Term"},
		Amount:  2000,
	}, march15)
	require.NoError(t, err)

	assert.Equal(t, 2000, updated.PaidAmount)
	assert.Equal(t, 3000, updated.RemainingBalance)
	assert.Equal(t, "15037", updated.ReceiptNumber)
	assert.Equal(t, "2024-03-15", updated.PaymentDate)
	assert.Equal(t, "2024-03-15: Term-wise: I Term, Amount: 2000, Receipt: 15037", updated.PaymentHistory)

	assert.Equal(t, models.Receipt{
		AdmissionNumber:  7,
		StudentName:      "Asha Rao",
		ClassName:        models.Class3,
		ParentMobile:     "9876543210",
		Date:             "2024-03-15",
		Detail:           "Term-wise: I Term",
		AmountPaid:       2000,
		RemainingBalance: 3000,
		ReceiptNumber:    "15037",
	}, receipt)

	// the input record is a value and stays as it was
	assert.Equal(t, 0, rec.PaidAmount)
	assert.Empty(t, rec.PaymentHistory)
}

func TestApplyPaymentOverpaymentLeavesRecordUnchanged(t *testing.T) {
	rec, _, err := ApplyPayment(newStudent(7, 5000), models.PaymentRequest{
		Type: models.PaymentTermWise, Periods: []string{"I Term"}, Amount: 2000,
	}, march15)
	require.NoError(t, err)

	after, _, err := ApplyPayment(rec, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 3500}, march15)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverpayment))
	assert.Equal(t, rec, after)
	assert.Equal(t, 2000, after.PaidAmount)
	assert.Equal(t, 3000, after.RemainingBalance)
}

func TestApplyPaymentSettlesBalance(t *testing.T) {
	rec, _, err := ApplyPayment(newStudent(7, 5000), models.PaymentRequest{
		Type: models.PaymentTermWise, Periods: []string{"I Term"}, Amount: 2000,
	}, march15)
	require.NoError(t, err)

	rec, receipt, err := ApplyPayment(rec, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 3000}, march15)
	require.NoError(t, err)
	assert.Equal(t, 5000, rec.PaidAmount)
	assert.Equal(t, 0, rec.RemainingBalance)
	assert.Equal(t, 0, receipt.RemainingBalance)
}

func TestApplyPaymentHistoryConcatenation(t *testing.T) {
	rec := newStudent(42, 10000)
	first := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, time.July, 9, 0, 0, 0, 0, time.UTC)

	rec, _, err := ApplyPayment(rec, models.PaymentRequest{
		Type: models.PaymentMonthWise, Periods: []string{"01-month", "02-month"}, Amount: 1500,
	}, first)
	require.NoError(t, err)
	firstLine := rec.PaymentHistory

	rec, _, err = ApplyPayment(rec, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 500}, second)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01: Month-wise: 01-month, 02-month, Amount: 1500, Receipt: 010642", firstLine)
	assert.Equal(t, firstLine+"\n"+"2024-07-09: Custom-wise, Amount: 500, Receipt: 090742", rec.PaymentHistory)
	assert.Equal(t, "090742", rec.ReceiptNumber)
	assert.Equal(t, "2024-07-09", rec.PaymentDate)
}

func TestApplyPaymentKeepsBalanceInvariant(t *testing.T) {
	rec := newStudent(3, 1000)
	for _, amount := range []int{1, 99, 250, 400, 250} {
		var err error
		rec, _, err = ApplyPayment(rec, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: amount}, march15)
		require.NoError(t, err)
		assert.Equal(t, rec.TotalFee, rec.PaidAmount+rec.RemainingBalance)
		assert.GreaterOrEqual(t, rec.RemainingBalance, 0)
	}
	assert.Equal(t, 0, rec.RemainingBalance)
	assert.Len(t, strings.Split(rec.PaymentHistory, "\n"), 5)
}

func TestApplyPaymentRejectsInvalidInput(t *testing.T) {
	rec := newStudent(7, 5000)

	tests := []struct {
		name string
		req  models.PaymentRequest
	}{
		{"zero amount", models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 0}},
		{"negative amount", models.PaymentRequest{Type: models.PaymentCustomWise, Amount: -10}},
		{"unknown type", models.PaymentRequest{Type: "Year-wise", Amount: 100}},
		{"month label on term payment", models.PaymentRequest{Type: models.PaymentTermWise, Periods: []string{"01-month"}, Amount: 100}},
		{"unknown month", models.PaymentRequest{Type: models.PaymentMonthWise, Periods: []string{"11-month"}, Amount: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after, _, err := ApplyPayment(rec, tt.req, march15)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			assert.Equal(t, rec, after)
		})
	}
}

func TestApplyPaymentAllowsEmptySelection(t *testing.T) {
	rec, receipt, err := ApplyPayment(newStudent(7, 5000), models.PaymentRequest{
		Type: models.PaymentMonthWise, Amount: 100,
	}, march15)
	require.NoError(t, err)
	assert.Equal(t, "Month-wise", receipt.Detail)
	assert.Equal(t, "2024-03-15: Month-wise, Amount: 100, Receipt: 15037", rec.PaymentHistory)
}

func TestReceiptNumber(t *testing.T) {
	tests := []struct {
		asOf      time.Time
		admission int
		want      string
	}{
		{march15, 7, "15037"},
		{march15, 42, "150342"},
		{march15, 1234, "150334"},
		{time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), 5, "02015"},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 100, "311200"},
	}
	for _, tt := range tests {
		got := ReceiptNumber(tt.asOf, tt.admission)
		assert.Equal(t, tt.want, got, "admission %d on %s", tt.admission, tt.asOf.Format(models.DateLayout))
		assert.GreaterOrEqual(t, len(got), 5)
		assert.Regexp(t, `^[0-9]+$`, got)
	}
}

func TestReceiptNumbersCollideAcrossStudents(t *testing.T) {
	assert.Equal(t, ReceiptNumber(march15, 107), ReceiptNumber(march15, 207))
}

func TestDetailLabel(t *testing.T) {
	assert.Equal(t, "Term-wise", DetailLabel(models.PaymentTermWise, nil))
	assert.Equal(t, "Term-wise: I Term, III Term", DetailLabel(models.PaymentTermWise, []string{"I Term", "III Term"}))
	assert.Equal(t, "Month-wise: 10-month", DetailLabel(models.PaymentMonthWise, []string{"10-month"}))
	assert.Equal(t, "Custom-wise", DetailLabel(models.PaymentCustomWise, []string{"ignored"}))
}

func TestLedgerPayWritesThrough(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	reg := NewRegistry(store)
	_, err := reg.Register(ctx, models.Registration{
		AdmissionNumber: 1, StudentName: "Ravi", ParentMobile: "111", ClassName: models.ClassNursery, TotalFee: 900,
	})
	require.NoError(t, err)
	_, err = reg.Register(ctx, models.Registration{
		AdmissionNumber: 7, StudentName: "Asha Rao", ParentMobile: "9876543210", ClassName: models.Class3, TotalFee: 5000,
	})
	require.NoError(t, err)

	l := NewLedger(reg)
	updated, receipt, err := l.Pay(ctx, 7, models.PaymentRequest{
		Type: models.PaymentTermWise, Periods: []string{"I Term"}, Amount: 2000,
	}, march15)
	require.NoError(t, err)
	assert.Equal(t, "15037", receipt.ReceiptNumber)

	cached, err := reg.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, updated, cached)

	rows, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2000", rows[1][models.ColPaidAmount])
	assert.Equal(t, "3000", rows[1][models.ColRemainingBalance])
	assert.Equal(t, "15037", rows[1][models.ColReceiptNumber])
	assert.Equal(t, "2024-03-15", rows[1][models.ColPaymentDate])
	assert.Equal(t, updated.PaymentHistory, rows[1][models.ColPaymentHistory])
	assert.Equal(t, "0", rows[0][models.ColPaidAmount])

	_, _, err = l.Pay(ctx, 7, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 3500}, march15)
	assert.True(t, errors.Is(err, ErrOverpayment))
	rows, _ = store.ReadAll(ctx)
	assert.Equal(t, "2000", rows[1][models.ColPaidAmount])
}

func TestLedgerPayUnknownStudent(t *testing.T) {
	l := NewLedger(NewRegistry(storage.NewMemory()))

	_, _, err := l.Pay(context.Background(), 99, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 10}, march15)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = l.Pay(context.Background(), 0, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 10}, march15)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

type failingSheet struct {
	*storage.Memory
}

func (f failingSheet) UpdateFields(ctx context.Context, rowIndex int, updates map[string]interface{}) error {
	return storage.ErrStorage
}

func TestLedgerPayStorageFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(failingSheet{storage.NewMemory()})
	before, err := reg.Register(ctx, models.Registration{
		AdmissionNumber: 7, StudentName: "Asha Rao", ParentMobile: "9876543210", ClassName: models.Class3, TotalFee: 5000,
	})
	require.NoError(t, err)

	_, _, err = NewLedger(reg).Pay(ctx, 7, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 100}, march15)
	assert.True(t, errors.Is(err, storage.ErrStorage))

	after, err := reg.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplyPaymentRejectsAmountPastMaxInt(t *testing.T) {
	rec := newStudent(7, 5000)
	rec.PaidAmount = 2000
	rec.RemainingBalance = 3000

	for _, amount := range []int{math.MaxInt, math.MaxInt - 1000, 3001} {
		updated, _, err := ApplyPayment(rec, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: amount}, march15)
		assert.True(t, errors.Is(err, ErrOverpayment), "amount %d: got %v", amount, err)
		assert.Equal(t, rec, updated)
	}
}

// stallingSheet pauses one ReadAll after it has read storage, until resume is closed.
type stallingSheet struct {
	*storage.Memory
	stall   atomic.Bool
	reading chan struct{}
	resume  chan struct{}
}

func (s *stallingSheet) ReadAll(ctx context.Context) ([]storage.Row, error) {
	rows, err := s.Memory.ReadAll(ctx)
	if s.stall.CompareAndSwap(true, false) {
		close(s.reading)
		<-s.resume
	}
	return rows, err
}

func TestReloadDuringPaymentKeepsPayment(t *testing.T) {
	ctx := context.Background()
	store := &stallingSheet{
		Memory:  storage.NewMemory(),
		reading: make(chan struct{}),
		resume:  make(chan struct{}),
	}
	reg := NewRegistry(store)
	require.NoError(t, reg.Load(ctx))
	_, err := reg.Register(ctx, models.Registration{
		AdmissionNumber: 7, StudentName: "Asha Rao", ParentMobile: "9876543210", ClassName: models.Class3, TotalFee: 5000,
	})
	require.NoError(t, err)
	book := NewLedger(reg)

	store.stall.Store(true)
	loaded := make(chan error, 1)
	go func() { loaded <- reg.Load(ctx) }()
	<-store.reading

	_, _, err = book.Pay(ctx, 7, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 3000}, march15)
	require.NoError(t, err)

	close(store.resume)
	require.NoError(t, <-loaded)

	rec, err := reg.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, 3000, rec.PaidAmount)

	_, _, err = book.Pay(ctx, 7, models.PaymentRequest{Type: models.PaymentCustomWise, Amount: 4000}, march15)
	assert.True(t, errors.Is(err, ErrOverpayment), "got %v", err)

	rows, err := store.Memory.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3000", rows[0][models.ColPaidAmount])
	assert.Equal(t, "2000", rows[0][models.ColRemainingBalance])

	// a quiet reload still picks up storage
	require.NoError(t, reg.Load(ctx))
	rec, err = reg.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, 3000, rec.PaidAmount)
}
