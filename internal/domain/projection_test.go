package domain_test

import (
	"testing"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"
)

func money(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func TestComputeBalances_Formula(t *testing.T) {
	accounts := []domain.Account{
		{ID: "a1", InitialAmount: money(t, "100")},
		{ID: "a2", InitialAmount: money(t, "0")},
	}
	incomes := []domain.Income{
		{AccountID: "a1", Amount: money(t, "50")},
		{AccountID: "a1", Amount: money(t, "10")},
	}
	expenses := []domain.Expense{
		{AccountID: "a1", Amount: money(t, "30")},
	}
	transfers := []domain.Transfer{
		{FromAccountID: "a1", ToAccountID: "a2", Amount: money(t, "20")},
	}

	balances := domain.ComputeBalances(accounts, incomes, expenses, transfers)

	// a1: 100 + 50 + 10 - 30 - 20 = 110
	if got := balances[0].CurrentBalance.String(); got != "110.00" {
		t.Errorf("a1 balance = %s, want 110.00", got)
	}
	// a2: 0 + 20 = 20
	if got := balances[1].CurrentBalance.String(); got != "20.00" {
		t.Errorf("a2 balance = %s, want 20.00", got)
	}
}

func TestComputeBalances_NoEntries(t *testing.T) {
	accounts := []domain.Account{{ID: "a1", InitialAmount: money(t, "42.42")}}
	balances := domain.ComputeBalances(accounts, nil, nil, nil)
	if got := balances[0].CurrentBalance.String(); got != "42.42" {
		t.Errorf("balance = %s, want 42.42", got)
	}
}

func TestComputeBalances_CanGoNegative(t *testing.T) {
	accounts := []domain.Account{{ID: "a1", InitialAmount: money(t, "10")}}
	expenses := []domain.Expense{{AccountID: "a1", Amount: money(t, "25")}}
	balances := domain.ComputeBalances(accounts, nil, expenses, nil)
	if got := balances[0].CurrentBalance.String(); got != "-15.00" {
		t.Errorf("balance = %s, want -15.00", got)
	}
}

func TestComputeGoalProgress_Uncapped(t *testing.T) {
	goals := []domain.Goal{
		{ID: "g1", TargetAmount: money(t, "100"), InitialAmount: money(t, "50")},
	}
	transfers := []domain.Transfer{
		{GoalID: "g1", Amount: money(t, "75")},
		{Amount: money(t, "999")}, // no goal, must not count
	}

	progress := domain.ComputeGoalProgress(goals, transfers)

	if got := progress[0].CurrentAmount.String(); got != "125.00" {
		t.Errorf("current = %s, want 125.00", got)
	}
	if progress[0].ProgressPercent != 125 {
		t.Errorf("percent = %v, want 125", progress[0].ProgressPercent)
	}
}

func TestComputeGoalProgress_Ordering(t *testing.T) {
	date := func(month int) time.Time {
		return time.Date(2026, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	}
	goals := []domain.Goal{
		{ID: "done-late", Completed: true, TargetDate: date(9)},
		{ID: "open-late", TargetDate: date(6)},
		{ID: "open-soon", TargetDate: date(2)},
		{ID: "done-soon", Completed: true, TargetDate: date(1)},
	}

	progress := domain.ComputeGoalProgress(goals, nil)

	want := []string{"open-soon", "open-late", "done-soon", "done-late"}
	for i, id := range want {
		if progress[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, progress[i].ID, id)
		}
	}
}

func TestComputeGoalProgress_ZeroTarget(t *testing.T) {
	goals := []domain.Goal{{ID: "g1"}}
	progress := domain.ComputeGoalProgress(goals, nil)
	if progress[0].ProgressPercent != 0 {
		t.Errorf("percent = %v, want 0", progress[0].ProgressPercent)
	}
}

func TestComputeBudgetUsage_CurrentMonthOnly(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	budgets := []domain.Budget{
		{ID: "b1", CategoryID: "c1", Amount: money(t, "200")},
	}
	categories := []domain.Category{{ID: "c1", Name: "Groceries"}}
	expenses := []domain.Expense{
		{CategoryID: "c1", Amount: money(t, "60"), Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{CategoryID: "c1", Amount: money(t, "40"), Date: time.Date(2025, 3, 31, 23, 59, 0, 0, time.UTC)},
		{CategoryID: "c1", Amount: money(t, "500"), Date: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)}, // previous month
		{CategoryID: "c2", Amount: money(t, "80"), Date: now},                                           // other category
		{Amount: money(t, "10"), Date: now},                                                             // uncategorized
	}

	usage := domain.ComputeBudgetUsage(budgets, categories, expenses, now)

	if got := usage[0].Spent.String(); got != "100.00" {
		t.Errorf("spent = %s, want 100.00", got)
	}
	if usage[0].Percentage != 50 {
		t.Errorf("percentage = %v, want 50", usage[0].Percentage)
	}
	if usage[0].State != domain.BudgetOK {
		t.Errorf("state = %s, want ok", usage[0].State)
	}
	if usage[0].CategoryName != "Groceries" {
		t.Errorf("categoryName = %q, want Groceries", usage[0].CategoryName)
	}
}

func TestComputeBudgetUsage_States(t *testing.T) {
	now := time.Now()
	budgets := []domain.Budget{
		{ID: "near", CategoryID: "c1", Amount: money(t, "100")},
		{ID: "over", CategoryID: "c2", Amount: money(t, "100")},
		{ID: "zero", CategoryID: "c3", Amount: money(t, "0")},
	}
	expenses := []domain.Expense{
		{CategoryID: "c1", Amount: money(t, "90"), Date: now},
		{CategoryID: "c2", Amount: money(t, "150"), Date: now},
		{CategoryID: "c3", Amount: money(t, "10"), Date: now},
	}

	usage := domain.ComputeBudgetUsage(budgets, nil, expenses, now)

	if usage[0].State != domain.BudgetNearLimit {
		t.Errorf("90%% spend: state = %s, want near_limit", usage[0].State)
	}
	if usage[1].State != domain.BudgetOver {
		t.Errorf("150%% spend: state = %s, want over_budget", usage[1].State)
	}
	if usage[2].Percentage != 0 || usage[2].State != domain.BudgetOK {
		t.Errorf("zero budget: percentage = %v state = %s, want 0/ok", usage[2].Percentage, usage[2].State)
	}
}

func TestSubscription_MonthlyCost(t *testing.T) {
	yearly := domain.Subscription{Amount: money(t, "120"), BillingCycle: domain.BillingYearly}
	if got := yearly.MonthlyCost().String(); got != "10.00" {
		t.Errorf("yearly 120 -> %s, want 10.00", got)
	}
	monthly := domain.Subscription{Amount: money(t, "9.99"), BillingCycle: domain.BillingMonthly}
	if got := monthly.MonthlyCost().String(); got != "9.99" {
		t.Errorf("monthly 9.99 -> %s, want 9.99", got)
	}
}
