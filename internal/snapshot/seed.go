package snapshot

import (
	"katha/internal/core"
)

// Seed returns the demo collections used when nothing has been stored yet.
// Dates are relative to today. Sequence numbers follow the collection's
// newest-first order.
func Seed(today core.Date) ([]core.Katha, []core.LedgerEntry) {
	yesterday, twoDaysAgo := today.AddDays(-1), today.AddDays(-2)

	kathas := []core.Katha{
		{
			ID:                "katha_community",
			Name:              "Community Katha",
			GoalAmount:        core.Rupees(150000),
			DailyContribution: core.Rupees(1500),
			Members:           []string{"Sunita", "Rajesh", "Anita", "Prakash"},
			StartDate:         twoDaysAgo,
			Description:       "Daily savings circle for neighbourhood grocery vendors to manage working capital.",
		},
		{
			ID:                "katha_staff",
			Name:              "Staff Support Katha",
			GoalAmount:        core.Rupees(100000),
			DailyContribution: core.Rupees(1200),
			Members:           []string{"Arjun", "Mina", "Kiran"},
			StartDate:         yesterday,
			Description:       "Emergency fund created by the staff to cover sudden medical or family expenses.",
		},
	}
	entries := []core.LedgerEntry{
		{ID: "entry_one", KathaID: "katha_community", Date: today, Amount: core.Rupees(3200), Type: core.Deposit, Category: "Daily savings", Note: "Collected cash from all members", Seq: 5},
		{ID: "entry_two", KathaID: "katha_community", Date: today, Amount: core.Rupees(1500), Type: core.Expense, Category: "Loan disbursement", Note: "Advanced to Rekha for raw materials", Seq: 4},
		{ID: "entry_three", KathaID: "katha_staff", Date: yesterday, Amount: core.Rupees(1800), Type: core.Deposit, Category: "Daily savings", Seq: 3},
		{ID: "entry_four", KathaID: "katha_staff", Date: twoDaysAgo, Amount: core.Rupees(2500), Type: core.Income, Category: "Interest income", Seq: 2},
		{ID: "entry_five", KathaID: "katha_community", Date: twoDaysAgo, Amount: core.Rupees(2000), Type: core.Withdrawal, Category: "Emergency fund", Note: "Paid out to Prakash for medical support", Seq: 1},
	}
	return kathas, entries
}
