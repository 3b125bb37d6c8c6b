package domain

import "fmt"

// EntryIDSource mints IDs for entries produced by posting rules.
type EntryIDSource interface {
	Generate() string
}

// postingStrategy computes and binds the entries a rule produces for an
// event. Strategies are pure over existing state except the explicit
// balance check in the withdrawal variant; they never create events or
// trigger reversal themselves.
type postingStrategy interface {
	post(rule *PostingRule, event *AccountingEvent, customer *Customer, ids EntryIDSource) ([]*Entry, error)
}

var strategies = map[RuleKind]postingStrategy{
	RuleKindDeposit:    depositStrategy{},
	RuleKindWithdrawal: withdrawalStrategy{},
	RuleKindTransfer:   transferStrategy{},
	RuleKindFee:        feeStrategy{},
}

// Post applies the rule to the event: calculate the amount, materialize
// the entries on the customer's accounts, and register them on the
// event. Entries are dated WhenNoticed; the ledger recognizes on notice
// date, not occurrence date. Any error leaves the customer's accounts
// untouched because strategies bind entries only after all checks pass.
func (r *PostingRule) Post(event *AccountingEvent, customer *Customer, ids EntryIDSource) ([]*Entry, error) {
	strategy, ok := strategies[r.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rule kind %q", ErrInvalidRuleConfiguration, r.Kind)
	}

	entries, err := strategy.post(r, event, customer, ids)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		event.RegisterEntry(entry.ID)
	}

	return entries, nil
}

// targetAccount resolves the account a single-account event posts to.
// An event that names an account gets that account, after checking it
// belongs to the customer and its type admits the rule's entry type.
// Without a named account the customer routes by entry type, where
// ambiguity is an error.
func targetAccount(rule *PostingRule, event *AccountingEvent, customer *Customer) (*Account, error) {
	if event.AccountID == "" {
		return customer.AccountFor(rule.EntryType)
	}

	account, ok := customer.Account(event.AccountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s", ErrAccountNotFound, event.AccountID)
	}

	if account.AccountType != rule.EntryType.AccountType {
		return nil, fmt.Errorf("%w: entry type %q expects account type %q, account %q is %q",
			ErrEntryTypeMismatch, rule.EntryType.Name, rule.EntryType.AccountType, account.Name, account.AccountType)
	}

	return account, nil
}

func makeEntryOn(account *Account, rule *PostingRule, event *AccountingEvent, ids EntryIDSource, amount Money) ([]*Entry, error) {
	entry := &Entry{
		ID:        ids.Generate(),
		EventID:   event.ID,
		EntryType: rule.EntryType,
		Amount:    amount,
		Date:      event.WhenNoticed,
	}

	if err := account.AddEntry(entry); err != nil {
		return nil, err
	}

	return []*Entry{entry}, nil
}

// depositStrategy credits the event's amount unchanged.
type depositStrategy struct{}

func (depositStrategy) post(rule *PostingRule, event *AccountingEvent, customer *Customer, ids EntryIDSource) ([]*Entry, error) {
	account, err := targetAccount(rule, event, customer)
	if err != nil {
		return nil, err
	}

	return makeEntryOn(account, rule, event, ids, event.Amount)
}

// withdrawalStrategy debits the event's amount. The funds check happens
// during calculation, before any entry exists, so a rejected withdrawal
// leaves no partial state.
type withdrawalStrategy struct{}

func (withdrawalStrategy) post(rule *PostingRule, event *AccountingEvent, customer *Customer, ids EntryIDSource) ([]*Entry, error) {
	account, err := targetAccount(rule, event, customer)
	if err != nil {
		return nil, err
	}

	cmp, err := event.Amount.Compare(account.Balance())
	if err != nil {
		return nil, err
	}

	if cmp > 0 {
		return nil, fmt.Errorf("%w: account %s", ErrInsufficientFunds, account.Name)
	}

	return makeEntryOn(account, rule, event, ids, event.Amount.Negate())
}

// transferStrategy posts two entries in one go: a debit on the source
// account and a credit on the destination.
type transferStrategy struct{}

func (transferStrategy) post(rule *PostingRule, event *AccountingEvent, customer *Customer, ids EntryIDSource) ([]*Entry, error) {
	if event.FromAccountID == event.ToAccountID {
		return nil, ErrSameAccount
	}

	from, ok := customer.Account(event.FromAccountID)
	if !ok {
		return nil, fmt.Errorf("%w: source account %s", ErrAccountNotFound, event.FromAccountID)
	}

	to, ok := customer.Account(event.ToAccountID)
	if !ok {
		return nil, fmt.Errorf("%w: destination account %s", ErrAccountNotFound, event.ToAccountID)
	}

	debit, err := makeEntryOn(from, rule, event, ids, event.Amount.Negate())
	if err != nil {
		return nil, err
	}

	credit, err := makeEntryOn(to, rule, event, ids, event.Amount)
	if err != nil {
		return nil, err
	}

	return append(debit, credit...), nil
}

// feeStrategy charges amount*multiplier + fixedFee, modeling percentage
// or tiered pricing from the service agreement.
type feeStrategy struct{}

func (feeStrategy) post(rule *PostingRule, event *AccountingEvent, customer *Customer, ids EntryIDSource) ([]*Entry, error) {
	account, err := targetAccount(rule, event, customer)
	if err != nil {
		return nil, err
	}

	charge := event.Amount.Multiply(rule.Multiplier).AddValue(rule.FixedFee)

	return makeEntryOn(account, rule, event, ids, charge.Negate())
}
