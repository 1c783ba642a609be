package models

import (
	"log"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{}, &User{},
		&Sale{}, &Purchase{}, &Party{}, &Item{}, &Expense{},
		&CashTransaction{}, &BankAccount{}, &Cheque{}, &LoanAccount{},
		&TargetConfig{}, &TargetFlag{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
