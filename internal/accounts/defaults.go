package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/coa/internal/model"
)

// DefaultChart returns a starter chart for a template name. Numbers follow the
// placement rule, so 1010 and 1020 land under 1000 and so on.
func DefaultChart(template string) []model.Account {
	switch template {
	case "empty":
		return nil
	case "small_business":
		return smallBusinessChart()
	default:
		return smallBusinessChart()
	}
}

func smallBusinessChart() []model.Account {
	return []model.Account{
		{Number: 1000, Description: "Assets", Balance: decimal.Zero},
		{Number: 1010, Description: "Business Checking", Balance: decimal.Zero},
		{Number: 1020, Description: "Business Savings", Balance: decimal.Zero},
		{Number: 2000, Description: "Liabilities", Balance: decimal.Zero},
		{Number: 2010, Description: "Credit Card", Balance: decimal.Zero},
		{Number: 3000, Description: "Equity", Balance: decimal.Zero},
		{Number: 3010, Description: "Owner's Equity", Balance: decimal.Zero},
		{Number: 4000, Description: "Revenue", Balance: decimal.Zero},
		{Number: 4010, Description: "Service Revenue", Balance: decimal.Zero},
		{Number: 4020, Description: "Product Revenue", Balance: decimal.Zero},
		{Number: 5000, Description: "Expenses", Balance: decimal.Zero},
		{Number: 5010, Description: "Advertising & Marketing", Balance: decimal.Zero},
		{Number: 5020, Description: "Software & SaaS", Balance: decimal.Zero},
		{Number: 5030, Description: "Office Supplies", Balance: decimal.Zero},
	}
}
