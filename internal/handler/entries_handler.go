package handler

import (
	"net/http"

	"github.com/ledgerly/ledgerly-api/internal/domain"
	"github.com/ledgerly/ledgerly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Incomes Handlers
// ============================================================

func listIncomesHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/incomes")
		defer span.End()

		incomes, err := svc.ListIncomes(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, incomes)
	}
}

func createIncomeHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/incomes")
		defer span.End()

		var input domain.EntryInput
		if err := decodeJSON(r, &input); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		income, err := svc.CreateIncome(ctx, UserIDFromContext(ctx), &input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, income)
	}
}

func updateIncomeHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/incomes/{incomeId}")
		defer span.End()

		var input domain.EntryInput
		if err := decodeJSON(r, &input); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		income, err := svc.UpdateIncome(ctx, UserIDFromContext(ctx), chi.URLParam(r, "incomeId"), &input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, income)
	}
}

func deleteIncomeHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/incomes/{incomeId}")
		defer span.End()

		if err := svc.DeleteIncome(ctx, UserIDFromContext(ctx), chi.URLParam(r, "incomeId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Expenses Handlers
// ============================================================

func listExpensesHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses")
		defer span.End()

		expenses, err := svc.ListExpenses(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, expenses)
	}
}

func createExpenseHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/expenses")
		defer span.End()

		var input domain.EntryInput
		if err := decodeJSON(r, &input); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		expense, err := svc.CreateExpense(ctx, UserIDFromContext(ctx), &input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, expense)
	}
}

func updateExpenseHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/expenses/{expenseId}")
		defer span.End()

		var input domain.EntryInput
		if err := decodeJSON(r, &input); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		expense, err := svc.UpdateExpense(ctx, UserIDFromContext(ctx), chi.URLParam(r, "expenseId"), &input)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, expense)
	}
}

func deleteExpenseHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/expenses/{expenseId}")
		defer span.End()

		if err := svc.DeleteExpense(ctx, UserIDFromContext(ctx), chi.URLParam(r, "expenseId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
