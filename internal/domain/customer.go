package domain

import (
	"fmt"
	"time"
)

// Customer owns a set of accounts (at most one per account type) and a
// service agreement reference. It routes entries to the account whose
// type matches the entry type's account type.
type Customer struct {
	ID          string
	Name        string
	AgreementID string
	Accounts    []*Account
	CreatedAt   time.Time
}

// Account returns the customer's account with the given ID.
func (c *Customer) Account(id string) (*Account, bool) {
	for _, account := range c.Accounts {
		if account.ID == id {
			return account, true
		}
	}

	return nil, false
}

// AccountFor selects the account matching the entry type's account type.
// Multiple matches are a configuration error, not a first-match pick, so
// an entry can never silently land on the wrong account.
func (c *Customer) AccountFor(entryType EntryType) (*Account, error) {
	var match *Account

	for _, account := range c.Accounts {
		if account.AccountType != entryType.AccountType {
			continue
		}

		if match != nil {
			return nil, fmt.Errorf("%w: account type %q", ErrAmbiguousAccount, entryType.AccountType)
		}

		match = account
	}

	if match == nil {
		return nil, fmt.Errorf("%w: no account of type %q", ErrAccountNotFound, entryType.AccountType)
	}

	return match, nil
}
