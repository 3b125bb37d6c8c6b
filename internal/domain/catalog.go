package domain

import "time"

// Currency is a unit of account. Codes are ISO 4217 style, three characters.
type Currency struct {
	Code      string
	Name      string
	CreatedAt time.Time
}

// AccountType classifies accounts (checking, savings, fees receivable).
type AccountType struct {
	Name      string
	CreatedAt time.Time
}

// EventType classifies business events (DEPOSIT, WITHDRAWAL, TRANSFER, FEE).
type EventType struct {
	Name      string
	CreatedAt time.Time
}

// EntryType classifies postings. Each entry type belongs to exactly one
// account type: an entry of this type may only land on an account of
// that type.
type EntryType struct {
	Name        string
	AccountType string
	CreatedAt   time.Time
}
