package domain

import (
	"fmt"
	"time"
)

// Account is an append-only container of entries in one currency and of
// one account type. The balance is always derived from the entries,
// never cached.
type Account struct {
	ID          string
	Name        string
	AccountType string
	Currency    string
	CreatedAt   time.Time

	entries []*Entry
}

// NewAccount creates an empty account.
func NewAccount(id, name, accountType, currency string, createdAt time.Time) *Account {
	return &Account{
		ID:          id,
		Name:        name,
		AccountType: accountType,
		Currency:    currency,
		CreatedAt:   createdAt,
	}
}

// AddEntry binds the entry to the account and appends it. The entry's
// currency must equal the account's currency, and the entry type must
// belong to the account's type.
func (a *Account) AddEntry(entry *Entry) error {
	if entry.Amount.Currency() != a.Currency {
		return fmt.Errorf("%w: entry %s on account %s", ErrCurrencyMismatch, entry.Amount.Currency(), a.Currency)
	}

	if entry.EntryType.AccountType != a.AccountType {
		return fmt.Errorf("%w: entry type %q expects account type %q, account %q is %q",
			ErrEntryTypeMismatch, entry.EntryType.Name, entry.EntryType.AccountType, a.Name, a.AccountType)
	}

	entry.AccountID = a.ID
	a.entries = append(a.entries, entry)

	return nil
}

// Entries returns the account's entries in posting order.
func (a *Account) Entries() []*Entry {
	return a.entries
}

// Balance sums all entry amounts.
func (a *Account) Balance() Money {
	return a.balanceUpTo(nil)
}

// BalanceAsOf sums entry amounts with date <= asOf.
func (a *Account) BalanceAsOf(asOf time.Time) Money {
	return a.balanceUpTo(&asOf)
}

func (a *Account) balanceUpTo(asOf *time.Time) Money {
	total := ZeroMoney(a.Currency)

	for _, entry := range a.entries {
		if asOf != nil && entry.Date.After(*asOf) {
			continue
		}

		// Entries were currency-checked on insertion, so Add cannot fail.
		total, _ = total.Add(entry.Amount)
	}

	return total
}
