package domain

// AccountCategory is the fixed chart-of-accounts classification.
type AccountCategory string

const (
	Asset     AccountCategory = "ASSET"
	Liability AccountCategory = "LIABILITY"
	Equity    AccountCategory = "EQUITY"
	Revenue   AccountCategory = "REVENUE"
	Expense   AccountCategory = "EXPENSE"
	COGS      AccountCategory = "COGS"
)

// Account is a chart-of-accounts entry a JournalEntry can debit or credit.
type Account struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Category  AccountCategory `json:"category"`
}

// AccountMap names the accounts approvals post to.
type AccountMap struct {
	Cash               string
	FuelInventory      string
	InventoryInTransit string
	AccountsPayable    string
	SalesClearing      string
	OperatorShortage   string
	OtherIncome        string
	ShrinkageExpense   string
	InventoryGain      string
}
