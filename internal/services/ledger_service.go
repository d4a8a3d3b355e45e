package services

import (
	"github.com/ruralpay/payments-engine/internal/models"
	"github.com/shopspring/decimal"
)

type ledgerKey struct {
	client models.ClientID
	tx     models.TransactionID
}

// LedgerService is the transaction history of a run. Deposits get a
// LedgerEntry so later disputes can find them; withdrawals only reserve their
// id. Deposits and withdrawals share one id namespace per client.
type LedgerService struct {
	entries map[ledgerKey]*models.LedgerEntry
	used    map[ledgerKey]struct{}
}

func NewLedgerService() *LedgerService {
	return &LedgerService{
		entries: make(map[ledgerKey]*models.LedgerEntry),
		used:    make(map[ledgerKey]struct{}),
	}
}

// Used reports whether a deposit or withdrawal already took tx for client.
func (s *LedgerService) Used(client models.ClientID, tx models.TransactionID) bool {
	_, ok := s.used[ledgerKey{client, tx}]
	return ok
}

// RecordDeposit stores a Normal entry for the deposit. It fails without any
// change if the id is taken.
func (s *LedgerService) RecordDeposit(client models.ClientID, tx models.TransactionID, amount decimal.Decimal) error {
	k := ledgerKey{client, tx}
	if _, ok := s.used[k]; ok {
		return ErrDuplicateTransaction
	}
	s.used[k] = struct{}{}
	s.entries[k] = &models.LedgerEntry{
		ClientID: client,
		TxID:     tx,
		Amount:   amount,
		Status:   models.StatusNormal,
	}
	return nil
}

// RecordWithdrawal reserves the id of an accepted withdrawal.
func (s *LedgerService) RecordWithdrawal(client models.ClientID, tx models.TransactionID) error {
	k := ledgerKey{client, tx}
	if _, ok := s.used[k]; ok {
		return ErrDuplicateTransaction
	}
	s.used[k] = struct{}{}
	return nil
}

// Lookup returns the deposit entry for (client, tx), if one was recorded.
func (s *LedgerService) Lookup(client models.ClientID, tx models.TransactionID) (*models.LedgerEntry, bool) {
	e, ok := s.entries[ledgerKey{client, tx}]
	return e, ok
}

// Transition moves e to next, or returns ErrInvalidTransactionState and
// leaves it alone.
func (s *LedgerService) Transition(e *models.LedgerEntry, next models.EntryStatus) error {
	if !e.Status.CanTransition(next) {
		return ErrInvalidTransactionState
	}
	e.Status = next
	return nil
}

// Entry returns a copy of the entry for (client, tx).
func (s *LedgerService) Entry(client models.ClientID, tx models.TransactionID) (models.LedgerEntry, bool) {
	e, ok := s.entries[ledgerKey{client, tx}]
	if !ok {
		return models.LedgerEntry{}, false
	}
	return *e, true
}

func (s *LedgerService) Len() int { return len(s.entries) }
