package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

// fakeStore serves fixed collections for a single business.
type fakeStore struct {
	sales     []*models.Sale
	purchases []*models.Purchase
	fetchErr  error
}

func (f *fakeStore) FetchSales(ctx context.Context, businessId string, from, to time.Time) ([]*models.Sale, error) {
	return f.sales, f.fetchErr
}
func (f *fakeStore) FetchPurchases(ctx context.Context, businessId string, from, to time.Time) ([]*models.Purchase, error) {
	return f.purchases, f.fetchErr
}
func (f *fakeStore) FetchParties(ctx context.Context, businessId string) ([]*models.Party, error) {
	return nil, f.fetchErr
}
func (f *fakeStore) FetchItems(ctx context.Context, businessId string) ([]*models.Item, error) {
	return nil, f.fetchErr
}
func (f *fakeStore) FetchCashTransactions(ctx context.Context, businessId string, from, to time.Time) ([]*models.CashTransaction, error) {
	return nil, f.fetchErr
}
func (f *fakeStore) FetchExpenses(ctx context.Context, businessId string, from, to time.Time) ([]*models.Expense, error) {
	return nil, f.fetchErr
}
func (f *fakeStore) FetchBankAccounts(ctx context.Context, businessId string) ([]*models.BankAccount, error) {
	return nil, f.fetchErr
}
func (f *fakeStore) FetchCheques(ctx context.Context, businessId string) ([]*models.Cheque, error) {
	return nil, f.fetchErr
}
func (f *fakeStore) FetchLoanAccounts(ctx context.Context, businessId string) ([]*models.LoanAccount, error) {
	return nil, f.fetchErr
}

// fakeRemote returns canned per-call payloads. When gates are set, call i
// blocks on gates[i] until the test releases it, so completion order is
// fully controlled.
type fakeRemote struct {
	err     error
	started chan struct{}
	gates   []chan struct{}
	calls   int
	data    []TransactionSummaryData
}

func (f *fakeRemote) Generate(ctx context.Context, kind models.ReportKind, businessId string, dr DateRange) (*ReportResult, error) {
	call := f.calls
	f.calls++
	if f.started != nil {
		f.started <- struct{}{}
	}
	if call < len(f.gates) {
		<-f.gates[call]
	}
	if f.err != nil {
		return nil, f.err
	}
	var data ReportData = TransactionSummaryData{}
	if call < len(f.data) {
		data = f.data[call]
	}
	return &ReportResult{
		Kind:        kind,
		BusinessId:  businessId,
		DateRange:   dr,
		GeneratedAt: time.Now(),
		Provenance:  ProvenanceRemote,
		Data:        data,
	}, nil
}

func newTestDispatcher(remote RemoteGenerator, store EntityStore) *Dispatcher {
	return NewDispatcher(remote, NewLocalAggregator(store, nil), nil)
}

func TestGenerateScopeMissing(t *testing.T) {
	disp := newTestDispatcher(&fakeRemote{}, &fakeStore{})
	_, err := disp.Generate(context.Background(), models.ReportKindSalesReport, "", DateRange{})
	if !errors.Is(err, ErrScopeMissing) {
		t.Fatalf("err = %v, want ErrScopeMissing", err)
	}
}

func TestGenerateRemoteAdopted(t *testing.T) {
	remote := &fakeRemote{data: []TransactionSummaryData{{TransactionCount: 5}}}
	disp := newTestDispatcher(remote, &fakeStore{})

	res, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Provenance != ProvenanceRemote {
		t.Errorf("Provenance = %s, want remote", res.Provenance)
	}
	cur, ok := disp.Current("biz-1", models.ReportKindTransactionSummary)
	if !ok || cur != res {
		t.Error("adopted result is not current")
	}
}

func TestGenerateFallsBackOnTransportFailure(t *testing.T) {
	remote := &fakeRemote{err: &TransportError{Op: "generate", Err: errors.New("connection refused")}}
	store := &fakeStore{
		sales:     []*models.Sale{{ID: 1, Total: d("1000"), Date: day(0)}},
		purchases: []*models.Purchase{{ID: 1, Total: d("400"), Date: day(0)}},
	}
	disp := newTestDispatcher(remote, store)

	res, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
	if err != nil {
		t.Fatalf("transport failure should fall back, got %v", err)
	}
	if res.Provenance != ProvenanceLocal {
		t.Errorf("Provenance = %s, want local", res.Provenance)
	}
	data, ok := res.Data.(TransactionSummaryData)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if !data.NetProfit.Equal(d("600")) {
		t.Errorf("NetProfit = %s, want 600", data.NetProfit)
	}
}

func TestGenerateSurfacesWhenBothPathsFail(t *testing.T) {
	remote := &fakeRemote{err: &TransportError{Op: "generate", Err: errors.New("timeout")}}
	store := &fakeStore{fetchErr: errors.New("mysql down")}
	disp := newTestDispatcher(remote, store)

	_, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
	if err == nil {
		t.Fatal("want error when remote and local both fail")
	}
}

func TestGenerateIdempotentData(t *testing.T) {
	store := &fakeStore{
		sales: []*models.Sale{{ID: 1, Total: d("100"), Date: day(0)}},
	}
	disp := newTestDispatcher(nil, store)

	first, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	a := first.Data.(TransactionSummaryData)
	b := second.Data.(TransactionSummaryData)
	if !a.TotalSales.Equal(b.TotalSales) || a.TransactionCount != b.TransactionCount {
		t.Errorf("identical inputs produced different data: %+v vs %+v", a, b)
	}
}

func TestGenerateSupersededByIssuanceOrder(t *testing.T) {
	remote := &fakeRemote{
		started: make(chan struct{}, 2),
		gates:   []chan struct{}{make(chan struct{}), make(chan struct{})},
		data: []TransactionSummaryData{
			{TransactionCount: 1},
			{TransactionCount: 2},
		},
	}
	disp := newTestDispatcher(remote, &fakeStore{})

	type outcome struct {
		res *ReportResult
		err error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		res, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
		firstDone <- outcome{res, err}
	}()
	<-remote.started

	secondDone := make(chan outcome, 1)
	go func() {
		res, err := disp.Generate(context.Background(), models.ReportKindTransactionSummary, "biz-1", DateRange{})
		secondDone <- outcome{res, err}
	}()
	<-remote.started

	// Release the second (most recently issued) call first, then the first.
	close(remote.gates[1])
	second := <-secondDone
	close(remote.gates[0])
	first := <-firstDone

	if second.err != nil {
		t.Fatalf("latest-issued call failed: %v", second.err)
	}
	if got := second.res.Data.(TransactionSummaryData).TransactionCount; got != 2 {
		t.Errorf("latest call data = %d, want 2", got)
	}
	if !errors.Is(first.err, ErrSuperseded) {
		t.Fatalf("earlier-issued call err = %v, want ErrSuperseded", first.err)
	}

	cur, ok := disp.Current("biz-1", models.ReportKindTransactionSummary)
	if !ok {
		t.Fatal("no current result")
	}
	if got := cur.Data.(TransactionSummaryData).TransactionCount; got != 2 {
		t.Errorf("current data = %d, want the latest-issued call's 2", got)
	}
}

func TestGeneratedAtMonotonicPerScope(t *testing.T) {
	future := time.Now().Add(time.Hour)
	remote := &fakeRemote{}
	disp := newTestDispatcher(remote, &fakeStore{})

	ctx := context.Background()
	res1, err := disp.Generate(ctx, models.ReportKindCashFlow, "biz-1", DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	// Simulate a previously adopted result with a later clock.
	res1.GeneratedAt = future
	key := scopeKey{businessId: "biz-1", kind: models.ReportKindCashFlow}
	disp.mu.Lock()
	disp.current[key] = res1
	disp.mu.Unlock()

	res2, err := disp.Generate(ctx, models.ReportKindCashFlow, "biz-1", DateRange{})
	if err != nil {
		t.Fatal(err)
	}
	if res2.GeneratedAt.Before(future) {
		t.Errorf("GeneratedAt went backwards: %v < %v", res2.GeneratedAt, future)
	}
}

func TestGenerateNonTransportRemoteErrorSurfaces(t *testing.T) {
	remote := &fakeRemote{err: errors.New("unauthorized")}
	disp := newTestDispatcher(remote, &fakeStore{})

	_, err := disp.Generate(context.Background(), models.ReportKindSalesReport, "biz-1", DateRange{})
	if err == nil || IsTransport(err) {
		t.Fatalf("non-transport remote error should surface as-is, got %v", err)
	}
}
