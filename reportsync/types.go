package reportsync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/reports"
	"github.com/shopspring/decimal"
)

type generateRequest struct {
	Kind       string `json:"kind"`
	BusinessId string `json:"business_id"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
}

type generateResponse struct {
	Kind        string          `json:"kind"`
	BusinessId  string          `json:"business_id"`
	GeneratedAt string          `json:"generated_at"`
	Data        json.RawMessage `json:"data"`
}

// wireAmount accepts any JSON scalar for an amount field and coerces it
// through reports.ParseAmount, so a malformed remote value degrades to zero
// instead of failing the whole report.
type wireAmount struct {
	decimal.Decimal
}

func (a *wireAmount) UnmarshalJSON(b []byte) error {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = reports.ParseAmount(v)
	return nil
}

type wireTransactionSummary struct {
	TotalSales       wireAmount `json:"total_sales"`
	TotalPurchases   wireAmount `json:"total_purchases"`
	NetProfit        wireAmount `json:"net_profit"`
	TransactionCount int        `json:"transaction_count"`
}

type wireSaleRecord struct {
	ID          int        `json:"id"`
	InvoiceNo   string     `json:"invoice_no"`
	BillNo      string     `json:"bill_no"`
	PartyName   string     `json:"party_name"`
	Date        string     `json:"date"`
	PaymentType string     `json:"payment_type"`
	Total       wireAmount `json:"total"`
	Status      string     `json:"status"`
}

type wireSalesReport struct {
	Records []wireSaleRecord `json:"records"`
	Total   wireAmount       `json:"total"`
	Average wireAmount       `json:"average"`
	Count   int              `json:"count"`
}

type wirePartyLine struct {
	PartyId    int        `json:"party_id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Receivable wireAmount `json:"receivable"`
	Payable    wireAmount `json:"payable"`
}

type wirePartyStatement struct {
	Parties          []wirePartyLine `json:"parties"`
	TotalReceivables wireAmount      `json:"total_receivables"`
	TotalPayables    wireAmount      `json:"total_payables"`
	NetBalance       wireAmount      `json:"net_balance"`
}

type wireCashFlow struct {
	Inflow  wireAmount `json:"inflow"`
	Outflow wireAmount `json:"outflow"`
	NetFlow wireAmount `json:"net_flow"`
}

type wireProfitLoss struct {
	Revenue      wireAmount `json:"revenue"`
	Costs        wireAmount `json:"costs"`
	GrossProfit  wireAmount `json:"gross_profit"`
	ProfitMargin wireAmount `json:"profit_margin"`
}

type wireItemLine struct {
	ItemId       int        `json:"item_id"`
	Name         string     `json:"name"`
	CurrentStock wireAmount `json:"current_stock"`
	SalePrice    wireAmount `json:"sale_price"`
	StockValue   wireAmount `json:"stock_value"`
	Status       string     `json:"status"`
}

type wireStockSummary struct {
	Items           []wireItemLine `json:"items"`
	TotalStockValue wireAmount     `json:"total_stock_value"`
	LowStockCount   int            `json:"low_stock_count"`
	OutOfStockCount int            `json:"out_of_stock_count"`
}

type wireBusinessStatus struct {
	Cash            wireAmount `json:"cash"`
	Bank            wireAmount `json:"bank"`
	Receivables     wireAmount `json:"receivables"`
	Payables        wireAmount `json:"payables"`
	Assets          wireAmount `json:"assets"`
	Liabilities     wireAmount `json:"liabilities"`
	Equity          wireAmount `json:"equity"`
	LoanOutstanding wireAmount `json:"loan_outstanding"`
	OpenCheques     wireAmount `json:"open_cheques"`
}

type wireTaxReport struct {
	TaxableSales     wireAmount `json:"taxable_sales"`
	TaxablePurchases wireAmount `json:"taxable_purchases"`
	NetTaxable       wireAmount `json:"net_taxable"`
}

type wireExpenseGroup struct {
	Name            string     `json:"name"`
	Total           wireAmount `json:"total"`
	Count           int        `json:"count"`
	GroupPercentage wireAmount `json:"group_percentage"`
}

type wireExpenseReport struct {
	Groups     []wireExpenseGroup `json:"groups"`
	GrandTotal wireAmount         `json:"grand_total"`
}

func decodePayload(kind models.ReportKind, raw json.RawMessage) (reports.ReportData, error) {
	switch kind {
	case models.ReportKindSalesReport:
		var w wireSalesReport
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		out := reports.SalesReportData{
			Records: make([]models.Sale, 0, len(w.Records)),
			Total:   w.Total.Decimal,
			Average: w.Average.Decimal,
			Count:   w.Count,
		}
		for _, r := range w.Records {
			out.Records = append(out.Records, models.Sale{
				ID:          r.ID,
				InvoiceNo:   r.InvoiceNo,
				PartyName:   r.PartyName,
				Date:        parseTimeOrZero(r.Date),
				PaymentType: models.PaymentType(r.PaymentType),
				Total:       r.Total.Decimal,
				Status:      models.PaymentStatus(r.Status),
			})
		}
		return out, nil

	case models.ReportKindPurchasesReport:
		var w wireSalesReport
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		out := reports.PurchasesReportData{
			Records: make([]models.Purchase, 0, len(w.Records)),
			Total:   w.Total.Decimal,
			Average: w.Average.Decimal,
			Count:   w.Count,
		}
		for _, r := range w.Records {
			billNo := r.BillNo
			if billNo == "" {
				billNo = r.InvoiceNo
			}
			out.Records = append(out.Records, models.Purchase{
				ID:          r.ID,
				BillNo:      billNo,
				PartyName:   r.PartyName,
				Date:        parseTimeOrZero(r.Date),
				PaymentType: models.PaymentType(r.PaymentType),
				Total:       r.Total.Decimal,
				Status:      models.PaymentStatus(r.Status),
			})
		}
		return out, nil

	case models.ReportKindPartyStatement, models.ReportKindPartyReport:
		var w wirePartyStatement
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		out := reports.PartyStatementData{
			Parties:          make([]reports.PartyBalanceLine, 0, len(w.Parties)),
			TotalReceivables: w.TotalReceivables.Decimal,
			TotalPayables:    w.TotalPayables.Decimal,
			NetBalance:       w.NetBalance.Decimal,
		}
		for _, p := range w.Parties {
			out.Parties = append(out.Parties, reports.PartyBalanceLine{
				PartyId:    p.PartyId,
				Name:       p.Name,
				Type:       models.PartyType(p.Type),
				Receivable: p.Receivable.Decimal,
				Payable:    p.Payable.Decimal,
			})
		}
		return out, nil

	case models.ReportKindCashFlow:
		var w wireCashFlow
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return reports.CashFlowData{
			Inflow:  w.Inflow.Decimal,
			Outflow: w.Outflow.Decimal,
			NetFlow: w.NetFlow.Decimal,
		}, nil

	case models.ReportKindProfitLoss:
		var w wireProfitLoss
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return reports.ProfitLossData{
			Revenue:      w.Revenue.Decimal,
			Costs:        w.Costs.Decimal,
			GrossProfit:  w.GrossProfit.Decimal,
			ProfitMargin: w.ProfitMargin.Decimal,
		}, nil

	case models.ReportKindItemReport, models.ReportKindStockSummary:
		var w wireStockSummary
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		out := reports.StockSummaryData{
			Items:           make([]reports.ItemStockLine, 0, len(w.Items)),
			TotalStockValue: w.TotalStockValue.Decimal,
			LowStockCount:   w.LowStockCount,
			OutOfStockCount: w.OutOfStockCount,
		}
		for _, it := range w.Items {
			out.Items = append(out.Items, reports.ItemStockLine{
				ItemId:       it.ItemId,
				Name:         it.Name,
				CurrentStock: it.CurrentStock.Decimal,
				SalePrice:    it.SalePrice.Decimal,
				StockValue:   it.StockValue.Decimal,
				Status:       models.StockStatus(it.Status),
			})
		}
		return out, nil

	case models.ReportKindBusinessStatus, models.ReportKindTrialBalance, models.ReportKindBalanceSheet:
		var w wireBusinessStatus
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return reports.BusinessStatusData{
			Cash:            w.Cash.Decimal,
			Bank:            w.Bank.Decimal,
			Receivables:     w.Receivables.Decimal,
			Payables:        w.Payables.Decimal,
			Assets:          w.Assets.Decimal,
			Liabilities:     w.Liabilities.Decimal,
			Equity:          w.Equity.Decimal,
			LoanOutstanding: w.LoanOutstanding.Decimal,
			OpenCheques:     w.OpenCheques.Decimal,
		}, nil

	case models.ReportKindTaxReport:
		var w wireTaxReport
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return reports.TaxReportData{
			TaxableSales:     w.TaxableSales.Decimal,
			TaxablePurchases: w.TaxablePurchases.Decimal,
			NetTaxable:       w.NetTaxable.Decimal,
		}, nil

	case models.ReportKindExpenseReport, models.ReportKindExpenseCategory, models.ReportKindExpenseItem:
		var w wireExpenseReport
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		out := reports.ExpenseReportData{
			Groups:     make([]reports.ExpenseGroup, 0, len(w.Groups)),
			GrandTotal: w.GrandTotal.Decimal,
		}
		for _, g := range w.Groups {
			out.Groups = append(out.Groups, reports.ExpenseGroup{
				Name:            g.Name,
				Total:           g.Total.Decimal,
				Count:           g.Count,
				GroupPercentage: g.GroupPercentage.Decimal,
			})
		}
		return out, nil

	default:
		var w wireTransactionSummary
		if err := unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return reports.TransactionSummaryData{
			TotalSales:       w.TotalSales.Decimal,
			TotalPurchases:   w.TotalPurchases.Decimal,
			NetProfit:        w.NetProfit.Decimal,
			TransactionCount: w.TransactionCount,
		}, nil
	}
}

func unmarshal(raw json.RawMessage, dest interface{}) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding report payload: %w", err)
	}
	return nil
}

func parseTimeOrZero(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return time.Time{}
}
