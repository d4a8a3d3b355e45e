package services

import (
	"sort"

	"github.com/ruralpay/payments-engine/internal/models"
)

// AccountBook owns every account seen during a run. Accounts are created on
// first reference and never removed.
type AccountBook struct {
	accounts map[models.ClientID]*models.Account
}

func NewAccountBook() *AccountBook {
	return &AccountBook{accounts: make(map[models.ClientID]*models.Account)}
}

// GetOrCreate returns the account for id, creating a zero-balance one if
// needed. The pointer is only handed to the Processor.
func (b *AccountBook) GetOrCreate(id models.ClientID) *models.Account {
	if a, ok := b.accounts[id]; ok {
		return a
	}
	a := &models.Account{ClientID: id}
	b.accounts[id] = a
	return a
}

// Get returns a copy of the account for id.
func (b *AccountBook) Get(id models.ClientID) (models.Account, bool) {
	a, ok := b.accounts[id]
	if !ok {
		return models.Account{}, false
	}
	return *a, true
}

func (b *AccountBook) Len() int { return len(b.accounts) }

// Snapshot returns copies of all accounts ordered by client id.
func (b *AccountBook) Snapshot() []models.Account {
	out := make([]models.Account, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}
