package services

import (
	"errors"
)

// Rejection reasons. A rejected record leaves every account and ledger entry
// untouched.
var (
	ErrDuplicateTransaction    = errors.New("transaction id already used by this client")
	ErrAccountLocked           = errors.New("account is locked")
	ErrInsufficientFunds       = errors.New("available funds too low")
	ErrTransactionNotFound     = errors.New("no deposit recorded for this client and transaction id")
	ErrInvalidTransactionState = errors.New("transaction is not in the expected dispute state")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrUnknownKind             = errors.New("unknown transaction kind")
)

// OutcomeStatus tells whether a record changed state.
type OutcomeStatus int

const (
	OutcomeApplied OutcomeStatus = iota
	OutcomeRejected
)

func (s OutcomeStatus) String() string {
	if s == OutcomeApplied {
		return "APPLIED"
	}
	return "REJECTED"
}

// Outcome is the result of applying one record. Reason is nil when applied.
type Outcome struct {
	Status OutcomeStatus
	Reason error
}

func applied() Outcome { return Outcome{Status: OutcomeApplied} }

func rejected(reason error) Outcome { return Outcome{Status: OutcomeRejected, Reason: reason} }

// Applied reports whether the record took effect.
func (o Outcome) Applied() bool { return o.Status == OutcomeApplied }

// Is reports whether the rejection reason matches target.
func (o Outcome) Is(target error) bool { return errors.Is(o.Reason, target) }
