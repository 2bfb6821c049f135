package domain

import (
	"sort"
	"time"
)

// Derived views are never stored. Each function below recomputes its
// projection from a snapshot of the owner's rows, so the result is
// independent of insertion order and of any previously cached value.

// ComputeBalances derives the current balance of every account:
//
//	initialAmount + incomes - expenses + transfers in - transfers out
//
// Entries referencing accounts absent from the snapshot are ignored.
// Output preserves the order of accounts.
func ComputeBalances(accounts []Account, incomes []Income, expenses []Expense, transfers []Transfer) []AccountBalance {
	byID := make(map[string]*AccountBalance, len(accounts))
	out := make([]AccountBalance, len(accounts))
	for i, a := range accounts {
		out[i] = AccountBalance{Account: a, CurrentBalance: a.InitialAmount}
		byID[a.ID] = &out[i]
	}

	for _, in := range incomes {
		if b, ok := byID[in.AccountID]; ok {
			b.CurrentBalance = b.CurrentBalance.Add(in.Amount)
		}
	}
	for _, ex := range expenses {
		if b, ok := byID[ex.AccountID]; ok {
			b.CurrentBalance = b.CurrentBalance.Sub(ex.Amount)
		}
	}
	for _, t := range transfers {
		if b, ok := byID[t.FromAccountID]; ok {
			b.CurrentBalance = b.CurrentBalance.Sub(t.Amount)
		}
		if b, ok := byID[t.ToAccountID]; ok {
			b.CurrentBalance = b.CurrentBalance.Add(t.Amount)
		}
	}
	return out
}

// ComputeGoalProgress derives the funded amount of every goal from the
// transfers earmarked for it. progressPercent is not capped at 100:
// overshooting the target is visible, and a zero target reports 0.
// Output lists active goals before completed ones, earliest target
// date first within each group.
func ComputeGoalProgress(goals []Goal, transfers []Transfer) []GoalProgress {
	funded := make(map[string]Money, len(goals))
	for _, t := range transfers {
		if t.GoalID == "" {
			continue
		}
		funded[t.GoalID] = funded[t.GoalID].Add(t.Amount)
	}

	out := make([]GoalProgress, len(goals))
	for i, g := range goals {
		current := g.InitialAmount.Add(funded[g.ID])
		percent := 0.0
		if !g.TargetAmount.IsZero() {
			ratio, _ := current.Div(g.TargetAmount.Decimal).Mul(hundred).Float64()
			percent = ratio
		}
		out[i] = GoalProgress{Goal: g, CurrentAmount: current, ProgressPercent: percent}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].TargetDate.Before(out[j].TargetDate)
	})
	return out
}

// ComputeBudgetUsage derives each budget's spend for the calendar month
// containing now. Only expenses carrying the budget's category count;
// the snapshot is already owner-scoped so no further filtering happens
// here.
func ComputeBudgetUsage(budgets []Budget, categories []Category, expenses []Expense, now time.Time) []BudgetUsage {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	spent := make(map[string]Money)
	for _, ex := range expenses {
		if ex.CategoryID == "" {
			continue
		}
		if ex.Date.Before(monthStart) || !ex.Date.Before(monthEnd) {
			continue
		}
		spent[ex.CategoryID] = spent[ex.CategoryID].Add(ex.Amount)
	}

	out := make([]BudgetUsage, len(budgets))
	for i, b := range budgets {
		used := spent[b.CategoryID]
		percent := 0.0
		if !b.Amount.IsZero() {
			ratio, _ := used.Div(b.Amount.Decimal).Mul(hundred).Float64()
			percent = ratio
		}
		out[i] = BudgetUsage{
			Budget:       b,
			CategoryName: names[b.CategoryID],
			Spent:        used,
			Percentage:   percent,
			State:        budgetState(percent),
		}
	}
	return out
}

func budgetState(percent float64) BudgetState {
	switch {
	case percent > 100:
		return BudgetOver
	case percent > 85:
		return BudgetNearLimit
	default:
		return BudgetOK
	}
}

// MonthlyCost converts a subscription amount to its monthly equivalent.
func (s Subscription) MonthlyCost() Money {
	if s.BillingCycle == BillingYearly {
		return NewMoney(s.Amount.Div(twelve))
	}
	return s.Amount
}
