package services

import (
	"github.com/ruralpay/payments-engine/internal/models"
)

// Processor applies records to the accounts and ledger it owns. Each record is
// checked in full before anything is mutated, so a rejected record changes
// nothing beyond the lazy creation of its account.
//
// A locked account rejects every later record, disputes included; funds held
// by an open dispute stay held.
type Processor struct {
	accounts *AccountBook
	ledger   *LedgerService
}

func NewProcessor() *Processor {
	return NewProcessorWith(NewAccountBook(), NewLedgerService())
}

// NewProcessorWith builds a Processor over existing state.
func NewProcessorWith(accounts *AccountBook, ledger *LedgerService) *Processor {
	return &Processor{accounts: accounts, ledger: ledger}
}

func (p *Processor) Accounts() *AccountBook { return p.accounts }

func (p *Processor) Ledger() *LedgerService { return p.ledger }

// Apply runs one record to completion.
func (p *Processor) Apply(rec models.Record) Outcome {
	acct := p.accounts.GetOrCreate(rec.ClientID)
	if acct.Locked {
		return rejected(ErrAccountLocked)
	}

	switch rec.Kind {
	case models.KindDeposit:
		return p.deposit(acct, rec)
	case models.KindWithdrawal:
		return p.withdraw(acct, rec)
	case models.KindDispute:
		return p.dispute(acct, rec)
	case models.KindResolve:
		return p.resolve(acct, rec)
	case models.KindChargeback:
		return p.chargeback(acct, rec)
	default:
		return rejected(ErrUnknownKind)
	}
}

func (p *Processor) deposit(acct *models.Account, rec models.Record) Outcome {
	if !rec.Amount.Valid || !rec.Amount.Decimal.IsPositive() {
		return rejected(ErrInvalidAmount)
	}
	amount := rec.Amount.Decimal
	if err := p.ledger.RecordDeposit(rec.ClientID, rec.TxID, amount); err != nil {
		return rejected(err)
	}
	acct.Available = acct.Available.Add(amount)
	return applied()
}

func (p *Processor) withdraw(acct *models.Account, rec models.Record) Outcome {
	if !rec.Amount.Valid || !rec.Amount.Decimal.IsPositive() {
		return rejected(ErrInvalidAmount)
	}
	amount := rec.Amount.Decimal
	if p.ledger.Used(rec.ClientID, rec.TxID) {
		return rejected(ErrDuplicateTransaction)
	}
	if acct.Available.LessThan(amount) {
		return rejected(ErrInsufficientFunds)
	}
	if err := p.ledger.RecordWithdrawal(rec.ClientID, rec.TxID); err != nil {
		return rejected(err)
	}
	acct.Available = acct.Available.Sub(amount)
	return applied()
}

// dispute holds the deposit's amount. It is rejected when the funds have
// already left the account.
func (p *Processor) dispute(acct *models.Account, rec models.Record) Outcome {
	entry, ok := p.ledger.Lookup(rec.ClientID, rec.TxID)
	if !ok {
		return rejected(ErrTransactionNotFound)
	}
	if entry.Status != models.StatusNormal {
		return rejected(ErrInvalidTransactionState)
	}
	if acct.Available.LessThan(entry.Amount) {
		return rejected(ErrInsufficientFunds)
	}
	if err := p.ledger.Transition(entry, models.StatusDisputed); err != nil {
		return rejected(err)
	}
	acct.Available = acct.Available.Sub(entry.Amount)
	acct.Held = acct.Held.Add(entry.Amount)
	return applied()
}

func (p *Processor) resolve(acct *models.Account, rec models.Record) Outcome {
	entry, ok := p.ledger.Lookup(rec.ClientID, rec.TxID)
	if !ok {
		return rejected(ErrTransactionNotFound)
	}
	if err := p.ledger.Transition(entry, models.StatusResolved); err != nil {
		return rejected(err)
	}
	acct.Held = acct.Held.Sub(entry.Amount)
	acct.Available = acct.Available.Add(entry.Amount)
	return applied()
}

// chargeback removes the held funds for good and locks the account.
func (p *Processor) chargeback(acct *models.Account, rec models.Record) Outcome {
	entry, ok := p.ledger.Lookup(rec.ClientID, rec.TxID)
	if !ok {
		return rejected(ErrTransactionNotFound)
	}
	if err := p.ledger.Transition(entry, models.StatusChargedBack); err != nil {
		return rejected(err)
	}
	acct.Held = acct.Held.Sub(entry.Amount)
	acct.Locked = true
	return applied()
}
