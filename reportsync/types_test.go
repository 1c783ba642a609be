package reportsync

import (
	"encoding/json"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/reports"
	"github.com/shopspring/decimal"
)

func TestDecodePayloadTransactionSummary(t *testing.T) {
	raw := json.RawMessage(`{"total_sales":"1,000","total_purchases":400,"net_profit":"600","transaction_count":2}`)
	data, err := decodePayload(models.ReportKindTransactionSummary, raw)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := data.(reports.TransactionSummaryData)
	if !ok {
		t.Fatalf("payload type = %T", data)
	}
	if !got.TotalSales.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalSales = %s, want 1000", got.TotalSales)
	}
	if got.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", got.TransactionCount)
	}
}

func TestDecodePayloadMalformedAmountCoercesToZero(t *testing.T) {
	raw := json.RawMessage(`{"inflow":"not-a-number","outflow":"50","net_flow":null}`)
	data, err := decodePayload(models.ReportKindCashFlow, raw)
	if err != nil {
		t.Fatal(err)
	}
	got := data.(reports.CashFlowData)
	if !got.Inflow.IsZero() {
		t.Errorf("malformed inflow = %s, want 0", got.Inflow)
	}
	if !got.Outflow.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Outflow = %s, want 50", got.Outflow)
	}
	if !got.NetFlow.IsZero() {
		t.Errorf("null net flow = %s, want 0", got.NetFlow)
	}
}

func TestDecodePayloadSalesRecords(t *testing.T) {
	raw := json.RawMessage(`{"records":[{"id":3,"invoice_no":"INV-3","party_name":"Aung","date":"2026-08-29T00:00:00Z","total":"2,500","status":"Unpaid","payment_type":"Credit"}],"total":"2500","average":"2500","count":1}`)
	data, err := decodePayload(models.ReportKindSalesReport, raw)
	if err != nil {
		t.Fatal(err)
	}
	got := data.(reports.SalesReportData)
	if got.Count != 1 || len(got.Records) != 1 {
		t.Fatalf("count/records = %d/%d", got.Count, len(got.Records))
	}
	rec := got.Records[0]
	if rec.ID != 3 || rec.InvoiceNo != "INV-3" || !rec.Total.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("record = %+v", rec)
	}
	if rec.Status != models.PaymentStatusUnpaid {
		t.Errorf("status = %s", rec.Status)
	}
	if rec.Date.IsZero() {
		t.Error("date not parsed")
	}
}

func TestParseTimeOrZero(t *testing.T) {
	if got := parseTimeOrZero("2026-08-29"); got.IsZero() {
		t.Error("date-only form should parse")
	}
	if got := parseTimeOrZero("yesterday"); !got.IsZero() {
		t.Errorf("garbage parsed to %v", got)
	}
	if got := parseTimeOrZero(""); !got.IsZero() {
		t.Errorf("empty parsed to %v", got)
	}
}
