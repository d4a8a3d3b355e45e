package models

import (
	"github.com/shopspring/decimal"
)

// EntryStatus is the dispute state of a recorded deposit.
type EntryStatus int

const (
	StatusNormal EntryStatus = iota
	StatusDisputed
	StatusResolved
	StatusChargedBack
)

func (s EntryStatus) String() string {
	switch s {
	case StatusNormal:
		return "NORMAL"
	case StatusDisputed:
		return "DISPUTED"
	case StatusResolved:
		return "RESOLVED"
	case StatusChargedBack:
		return "CHARGED_BACK"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition is accepted from s.
func (s EntryStatus) Terminal() bool {
	return s == StatusResolved || s == StatusChargedBack
}

// CanTransition reports whether s may move to next.
// Normal -> Disputed -> Resolved | ChargedBack.
func (s EntryStatus) CanTransition(next EntryStatus) bool {
	switch s {
	case StatusNormal:
		return next == StatusDisputed
	case StatusDisputed:
		return next == StatusResolved || next == StatusChargedBack
	default:
		return false
	}
}

// LedgerEntry is an accepted deposit kept for later dispute references.
type LedgerEntry struct {
	ClientID ClientID        `json:"client_id" db:"client_id"`
	TxID     TransactionID   `json:"tx_id" db:"tx_id"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Status   EntryStatus     `json:"status" db:"status"`
}

// Account is the balance state of one client. Total is derived.
type Account struct {
	ClientID  ClientID        `json:"client" db:"client_id"`
	Available decimal.Decimal `json:"available" db:"available"`
	Held      decimal.Decimal `json:"held" db:"held"`
	Locked    bool            `json:"locked" db:"locked"`
}

// Total returns available + held.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
