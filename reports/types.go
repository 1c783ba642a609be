package reports

import (
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/shopspring/decimal"
)

// Provenance marks where a result's data was computed.
type Provenance string

const (
	ProvenanceRemote Provenance = "remote"
	ProvenanceLocal  Provenance = "local"
)

// DateRange is an inclusive [From, To] window. A zero From or To leaves that
// side unbounded.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (dr DateRange) Contains(t time.Time) bool {
	if !dr.From.IsZero() && t.Before(dr.From) {
		return false
	}
	if !dr.To.IsZero() && t.After(dr.To) {
		return false
	}
	return true
}

// ReportResult is the envelope every aggregation produces. Data's concrete
// type is fully determined by Kind.
type ReportResult struct {
	Kind        models.ReportKind `json:"kind"`
	BusinessId  string            `json:"business_id"`
	DateRange   DateRange         `json:"date_range"`
	GeneratedAt time.Time         `json:"generated_at"`
	Provenance  Provenance        `json:"provenance"`
	Data        ReportData        `json:"data"`
}

// ReportData is the closed union of per-kind payloads. Only types in this
// package implement it.
type ReportData interface {
	reportData()
}

type TransactionSummaryData struct {
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalPurchases   decimal.Decimal `json:"total_purchases"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	TransactionCount int             `json:"transaction_count"`
}

type SalesReportData struct {
	Records []models.Sale   `json:"records"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

type PurchasesReportData struct {
	Records []models.Purchase `json:"records"`
	Total   decimal.Decimal   `json:"total"`
	Average decimal.Decimal   `json:"average"`
	Count   int               `json:"count"`
}

// PartyBalanceLine is one party's outstanding position. Receivable is set for
// customers with a positive balance, Payable for suppliers with outstanding
// owed.
type PartyBalanceLine struct {
	PartyId    int              `json:"party_id"`
	Name       string           `json:"name"`
	Type       models.PartyType `json:"type"`
	Receivable decimal.Decimal  `json:"receivable"`
	Payable    decimal.Decimal  `json:"payable"`
}

type PartyStatementData struct {
	Parties          []PartyBalanceLine `json:"parties"`
	TotalReceivables decimal.Decimal    `json:"total_receivables"`
	TotalPayables    decimal.Decimal    `json:"total_payables"`
	NetBalance       decimal.Decimal    `json:"net_balance"`
}

type CashFlowData struct {
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	NetFlow decimal.Decimal `json:"net_flow"`
}

type ProfitLossData struct {
	Revenue     decimal.Decimal `json:"revenue"`
	Costs       decimal.Decimal `json:"costs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	// ProfitMargin is a percentage, zero when there is no revenue.
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

type ItemStockLine struct {
	ItemId       int                `json:"item_id"`
	Name         string             `json:"name"`
	CurrentStock decimal.Decimal    `json:"current_stock"`
	SalePrice    decimal.Decimal    `json:"sale_price"`
	StockValue   decimal.Decimal    `json:"stock_value"`
	Status       models.StockStatus `json:"status"`
}

type StockSummaryData struct {
	Items           []ItemStockLine `json:"items"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

// BusinessStatusData backs the business-status, trial-balance and
// balance-sheet kinds. Equity is the residual of assets minus liabilities, so
// the balance-sheet identity holds by construction. Loan outstanding and open
// cheques are informational lines, not part of the identity.
type BusinessStatusData struct {
	Cash            decimal.Decimal `json:"cash"`
	Bank            decimal.Decimal `json:"bank"`
	Receivables     decimal.Decimal `json:"receivables"`
	Payables        decimal.Decimal `json:"payables"`
	Assets          decimal.Decimal `json:"assets"`
	Liabilities     decimal.Decimal `json:"liabilities"`
	Equity          decimal.Decimal `json:"equity"`
	LoanOutstanding decimal.Decimal `json:"loan_outstanding"`
	OpenCheques     decimal.Decimal `json:"open_cheques"`
}

type TaxReportData struct {
	TaxableSales     decimal.Decimal `json:"taxable_sales"`
	TaxablePurchases decimal.Decimal `json:"taxable_purchases"`
	NetTaxable       decimal.Decimal `json:"net_taxable"`
}

type ExpenseGroup struct {
	Name            string          `json:"name"`
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
	GroupPercentage decimal.Decimal `json:"group_percentage"`
}

type ExpenseReportData struct {
	Groups     []ExpenseGroup  `json:"groups"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

func (TransactionSummaryData) reportData() {}
func (SalesReportData) reportData()        {}
func (PurchasesReportData) reportData()    {}
func (PartyStatementData) reportData()     {}
func (CashFlowData) reportData()           {}
func (ProfitLossData) reportData()         {}
func (StockSummaryData) reportData()       {}
func (BusinessStatusData) reportData()     {}
func (TaxReportData) reportData()          {}
func (ExpenseReportData) reportData()      {}

// UnifiedTransaction is the single read model every transaction table and
// search consumes. Derived on read, never persisted. Balance is either zero
// (paid) or the full total (unpaid); partial payments are not modelled.
type UnifiedTransaction struct {
	Id              string                 `json:"id"`
	Date            time.Time              `json:"date"`
	InvoiceNo       string                 `json:"invoice_no"`
	PartyName       string                 `json:"party_name"`
	TransactionType models.TransactionType `json:"transaction_type"`
	PaymentType     models.PaymentType     `json:"payment_type"`
	Amount          decimal.Decimal        `json:"amount"`
	Balance         decimal.Decimal        `json:"balance"`
	Status          models.PaymentStatus   `json:"status"`
}
