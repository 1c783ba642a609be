package reports

import (
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

func TestUnifyBalances(t *testing.T) {
	sales := []models.Sale{
		{ID: 1, InvoiceNo: "INV-1", PartyName: "Aung", Date: day(2), Total: d("500"), Status: models.PaymentStatusPaid},
		{ID: 2, InvoiceNo: "INV-2", PartyName: "Bo", Date: day(0), Total: d("500"), Status: models.PaymentStatusUnpaid},
	}
	purchases := []models.Purchase{
		{ID: 7, BillNo: "BILL-7", PartyName: "Cho", Date: day(1), Total: d("250"), Status: models.PaymentStatusUnpaid},
	}

	got := Unify(sales, purchases)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// newest first
	if got[0].Id != "S-1" || got[1].Id != "P-7" || got[2].Id != "S-2" {
		t.Fatalf("order = %s,%s,%s", got[0].Id, got[1].Id, got[2].Id)
	}
	if !got[0].Balance.IsZero() {
		t.Errorf("paid sale balance = %s, want 0", got[0].Balance)
	}
	if !got[2].Balance.Equal(d("500")) {
		t.Errorf("unpaid sale balance = %s, want full total 500", got[2].Balance)
	}
	if got[1].TransactionType != models.TransactionTypePurchase || got[1].InvoiceNo != "BILL-7" {
		t.Errorf("purchase mapping wrong: %+v", got[1])
	}
}

func TestFilterTransactions(t *testing.T) {
	txns := Unify([]models.Sale{
		{ID: 1, InvoiceNo: "INV-1", PartyName: "Aung Kyaw", Date: day(0), Total: d("10")},
		{ID: 2, InvoiceNo: "INV-2", PartyName: "Bo Bo", Date: day(1), Total: d("20")},
	}, nil)

	if got := FilterTransactions(txns, "aung"); len(got) != 1 || got[0].Id != "S-1" {
		t.Errorf("party search failed: %+v", got)
	}
	if got := FilterTransactions(txns, "inv-2"); len(got) != 1 || got[0].Id != "S-2" {
		t.Errorf("invoice search failed: %+v", got)
	}
	if got := FilterTransactions(txns, "  "); len(got) != 2 {
		t.Errorf("blank query should return all, got %d", len(got))
	}
}
