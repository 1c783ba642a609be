package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type TransactionType string

const (
	TransactionTypeSale     TransactionType = "Sale"
	TransactionTypePurchase TransactionType = "Purchase"
	TransactionTypePayment  TransactionType = "Payment"
	TransactionTypeReceipt  TransactionType = "Receipt"
)

type PaymentType string

const (
	PaymentTypeCash   PaymentType = "Cash"
	PaymentTypeBank   PaymentType = "Bank"
	PaymentTypeCheque PaymentType = "Cheque"
	PaymentTypeCredit PaymentType = "Credit"
)

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
)

func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		return fmt.Errorf("unsupported payment status value: %v", value)
	}
	return nil
}

type PartyType string

const (
	PartyTypeCustomer PartyType = "Customer"
	PartyTypeSupplier PartyType = "Supplier"
)

type CashTransactionType string

const (
	CashTransactionTypeSale       CashTransactionType = "Sale"
	CashTransactionTypePurchase   CashTransactionType = "Purchase"
	CashTransactionTypeIncome     CashTransactionType = "Income"
	CashTransactionTypeExpense    CashTransactionType = "Expense"
	CashTransactionTypeAdjustment CashTransactionType = "Adjustment"
)

type StockStatus string

const (
	StockStatusInStock    StockStatus = "InStock"
	StockStatusLowStock   StockStatus = "LowStock"
	StockStatusOutOfStock StockStatus = "OutOfStock"
)

type ChequeStatus string

const (
	ChequeStatusOpen    ChequeStatus = "Open"
	ChequeStatusCleared ChequeStatus = "Cleared"
	ChequeStatusBounced ChequeStatus = "Bounced"
)

// ReportKind is the closed set of canonical aggregation kinds the engine
// actually implements. UI report keys normalize onto it (reports.Normalize).
type ReportKind string

const (
	ReportKindTransactionSummary ReportKind = "transaction-summary"
	ReportKindSalesReport        ReportKind = "sales-report"
	ReportKindPurchasesReport    ReportKind = "purchases-report"
	ReportKindPartyStatement     ReportKind = "party-statement"
	ReportKindPartyReport        ReportKind = "party-report"
	ReportKindCashFlow           ReportKind = "cash-flow"
	ReportKindProfitLoss         ReportKind = "profit-loss"
	ReportKindItemReport         ReportKind = "item-report"
	ReportKindStockSummary       ReportKind = "stock-summary"
	ReportKindBusinessStatus     ReportKind = "business-status"
	ReportKindTrialBalance       ReportKind = "trial-balance"
	ReportKindBalanceSheet       ReportKind = "balance-sheet"
	ReportKindTaxReport          ReportKind = "tax-report"
	ReportKindExpenseReport      ReportKind = "expense-report"
	ReportKindExpenseCategory    ReportKind = "expense-category"
	ReportKindExpenseItem        ReportKind = "expense-item"
)

// AllReportKinds lists every canonical kind, in a stable order.
var AllReportKinds = []ReportKind{
	ReportKindTransactionSummary,
	ReportKindSalesReport,
	ReportKindPurchasesReport,
	ReportKindPartyStatement,
	ReportKindPartyReport,
	ReportKindCashFlow,
	ReportKindProfitLoss,
	ReportKindItemReport,
	ReportKindStockSummary,
	ReportKindBusinessStatus,
	ReportKindTrialBalance,
	ReportKindBalanceSheet,
	ReportKindTaxReport,
	ReportKindExpenseReport,
	ReportKindExpenseCategory,
	ReportKindExpenseItem,
}

func (k ReportKind) Valid() bool {
	for _, kind := range AllReportKinds {
		if k == kind {
			return true
		}
	}
	return false
}

type TargetPeriod string

const (
	TargetPeriodDaily   TargetPeriod = "Daily"
	TargetPeriodMonthly TargetPeriod = "Monthly"
)

var ErrInvalidTargetPeriod = errors.New("invalid target period")
