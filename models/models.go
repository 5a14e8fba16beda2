package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID       int
	Username string
	Email    string
	Password string
}

type Transaction struct {
	ID          int
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Type        string
	UserID      int
}

type Budget struct {
	ID       int
	Category string
	Amount   decimal.Decimal
	Spent    decimal.Decimal
	UserID   int
}
