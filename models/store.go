package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"gorm.io/gorm"
)

// ReportStore is the entity-store collaborator the aggregation engine reads
// from. Every fetcher returns an ordered, tenant-scoped, read-only snapshot;
// the engine never mutates what it is given.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// DefaultReportStore uses the globally connected DB.
func DefaultReportStore() *ReportStore {
	return &ReportStore{db: config.GetDB()}
}

func dateScoped(db *gorm.DB, businessId string, from, to time.Time) *gorm.DB {
	db = db.Where("business_id = ?", businessId)
	if !from.IsZero() {
		db = db.Where("date >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("date <= ?", to)
	}
	return db
}

func (s *ReportStore) FetchSales(ctx context.Context, businessId string, from, to time.Time) ([]*Sale, error) {
	var sales []*Sale
	err := dateScoped(s.db.WithContext(ctx).Model(&Sale{}), businessId, from, to).
		Order("date DESC, id DESC").Find(&sales).Error
	return sales, err
}

func (s *ReportStore) FetchPurchases(ctx context.Context, businessId string, from, to time.Time) ([]*Purchase, error) {
	var purchases []*Purchase
	err := dateScoped(s.db.WithContext(ctx).Model(&Purchase{}), businessId, from, to).
		Order("date DESC, id DESC").Find(&purchases).Error
	return purchases, err
}

func (s *ReportStore) FetchParties(ctx context.Context, businessId string) ([]*Party, error) {
	var parties []*Party
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Order("name ASC, id ASC").Find(&parties).Error
	return parties, err
}

func (s *ReportStore) FetchItems(ctx context.Context, businessId string) ([]*Item, error) {
	var items []*Item
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Order("name ASC, id ASC").Find(&items).Error
	return items, err
}

func (s *ReportStore) FetchCashTransactions(ctx context.Context, businessId string, from, to time.Time) ([]*CashTransaction, error) {
	var txns []*CashTransaction
	err := dateScoped(s.db.WithContext(ctx).Model(&CashTransaction{}), businessId, from, to).
		Order("date DESC, id DESC").Find(&txns).Error
	return txns, err
}

func (s *ReportStore) FetchExpenses(ctx context.Context, businessId string, from, to time.Time) ([]*Expense, error) {
	var expenses []*Expense
	err := dateScoped(s.db.WithContext(ctx).Model(&Expense{}), businessId, from, to).
		Order("date DESC, id DESC").Find(&expenses).Error
	return expenses, err
}

func (s *ReportStore) FetchBankAccounts(ctx context.Context, businessId string) ([]*BankAccount, error) {
	var accounts []*BankAccount
	err := s.db.WithContext(ctx).
		Where("business_id = ? AND is_active = 1", businessId).
		Order("name ASC, id ASC").Find(&accounts).Error
	return accounts, err
}

func (s *ReportStore) FetchCheques(ctx context.Context, businessId string) ([]*Cheque, error) {
	var cheques []*Cheque
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Order("due_date ASC, id ASC").Find(&cheques).Error
	return cheques, err
}

func (s *ReportStore) FetchLoanAccounts(ctx context.Context, businessId string) ([]*LoanAccount, error) {
	var loans []*LoanAccount
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Order("lender_name ASC, id ASC").Find(&loans).Error
	return loans, err
}

func GetTargetConfig(ctx context.Context, businessId string) (*TargetConfig, error) {
	var cfg TargetConfig
	db := config.GetDB()
	err := db.WithContext(ctx).Where("business_id = ?", businessId).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
