package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies an account.
type ClientID = uint16

// TransactionID identifies a deposit or withdrawal within a client's history.
type TransactionID = uint32

// TransactionKind is the type column of an input row.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindDispute    TransactionKind = "dispute"
	KindResolve    TransactionKind = "resolve"
	KindChargeback TransactionKind = "chargeback"
)

// ParseKind maps a type column value to a TransactionKind. Matching ignores
// case and surrounding whitespace.
func ParseKind(s string) (TransactionKind, error) {
	switch k := TransactionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// RequiresAmount reports whether records of this kind carry an amount.
func (k TransactionKind) RequiresAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// RawRecord is an input row with every field still in text form.
type RawRecord struct {
	Type   string `validate:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client string `validate:"required,number"`
	Tx     string `validate:"required,number"`
	Amount string `validate:"omitempty,numeric"`
}

// Record is one typed input event. Amount is only valid for deposits and
// withdrawals.
type Record struct {
	Kind     TransactionKind     `json:"type"`
	ClientID ClientID            `json:"client"`
	TxID     TransactionID       `json:"tx"`
	Amount   decimal.NullDecimal `json:"amount"`
}

func (r Record) String() string {
	if r.Amount.Valid {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", r.Kind, r.ClientID, r.TxID, r.Amount.Decimal)
	}
	return fmt.Sprintf("%s client=%d tx=%d", r.Kind, r.ClientID, r.TxID)
}

// Deposit builds a deposit record.
func Deposit(client ClientID, tx TransactionID, amount decimal.Decimal) Record {
	return Record{Kind: KindDeposit, ClientID: client, TxID: tx, Amount: decimal.NewNullDecimal(amount)}
}

// Withdrawal builds a withdrawal record.
func Withdrawal(client ClientID, tx TransactionID, amount decimal.Decimal) Record {
	return Record{Kind: KindWithdrawal, ClientID: client, TxID: tx, Amount: decimal.NewNullDecimal(amount)}
}

// Dispute builds a dispute record referencing an earlier deposit.
func Dispute(client ClientID, tx TransactionID) Record {
	return Record{Kind: KindDispute, ClientID: client, TxID: tx}
}

// Resolve builds a resolve record referencing a disputed deposit.
func Resolve(client ClientID, tx TransactionID) Record {
	return Record{Kind: KindResolve, ClientID: client, TxID: tx}
}

// Chargeback builds a chargeback record referencing a disputed deposit.
func Chargeback(client ClientID, tx TransactionID) Record {
	return Record{Kind: KindChargeback, ClientID: client, TxID: tx}
}
