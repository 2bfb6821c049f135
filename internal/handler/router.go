package handler

import (
	"net/http"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"
	"github.com/ledgerly/ledgerly-api/internal/infra/observability"
	"github.com/ledgerly/ledgerly-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Everything under /v1 except /v1/auth requires a Bearer token; the
// owner is always taken from the token, never from the URL or body.
func NewRouter(svc *service.FinanceService, authSvc *service.AuthService, metrics *observability.Metrics, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Authentication (public except logout)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/refresh", authRefreshHandler(authSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Get("/me", authMeHandler(authSvc, logger))
				r.Post("/logout", authLogoutHandler(authSvc, logger))
			})
		})

		// Everything else is owner-scoped
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			// Dashboard
			r.Get("/dashboard", dashboardHandler(svc, logger))

			// Accounts
			r.Get("/accounts", listAccountsHandler(svc, logger))
			r.Post("/accounts", createAccountHandler(svc, logger))
			r.Get("/accounts/{accountId}", getAccountHandler(svc, logger))
			r.Put("/accounts/{accountId}", updateAccountHandler(svc, logger))
			r.Delete("/accounts/{accountId}", deleteAccountHandler(svc, logger))

			// Categories
			r.Get("/categories", listCategoriesHandler(svc, logger))
			r.Post("/categories", createCategoryHandler(svc, logger))
			r.Put("/categories/{categoryId}", updateCategoryHandler(svc, logger))
			r.Delete("/categories/{categoryId}", deleteCategoryHandler(svc, logger))

			// Incomes
			r.Get("/incomes", listIncomesHandler(svc, logger))
			r.Post("/incomes", createIncomeHandler(svc, logger))
			r.Put("/incomes/{incomeId}", updateIncomeHandler(svc, logger))
			r.Delete("/incomes/{incomeId}", deleteIncomeHandler(svc, logger))

			// Expenses
			r.Get("/expenses", listExpensesHandler(svc, logger))
			r.Post("/expenses", createExpenseHandler(svc, logger))
			r.Put("/expenses/{expenseId}", updateExpenseHandler(svc, logger))
			r.Delete("/expenses/{expenseId}", deleteExpenseHandler(svc, logger))

			// Transfers
			r.Get("/transfers", listTransfersHandler(svc, logger))
			r.Post("/transfers", createTransferHandler(svc, logger))
			r.Put("/transfers/{transferId}", updateTransferHandler(svc, logger))
			r.Delete("/transfers/{transferId}", deleteTransferHandler(svc, logger))

			// Subscriptions
			r.Get("/subscriptions", listSubscriptionsHandler(svc, logger))
			r.Post("/subscriptions", createSubscriptionHandler(svc, logger))
			r.Put("/subscriptions/{subscriptionId}", updateSubscriptionHandler(svc, logger))
			r.Delete("/subscriptions/{subscriptionId}", deleteSubscriptionHandler(svc, logger))

			// Goals
			r.Get("/goals", listGoalsHandler(svc, logger))
			r.Post("/goals", createGoalHandler(svc, logger))
			r.Get("/goals/{goalId}", getGoalHandler(svc, logger))
			r.Put("/goals/{goalId}", updateGoalHandler(svc, logger))
			r.Post("/goals/{goalId}/complete", completeGoalHandler(svc, logger))
			r.Delete("/goals/{goalId}", deleteGoalHandler(svc, logger))

			// Loans
			r.Get("/loans", listLoansHandler(svc, logger))
			r.Post("/loans", createLoanHandler(svc, logger))
			r.Put("/loans/{loanId}", updateLoanHandler(svc, logger))
			r.Delete("/loans/{loanId}", deleteLoanHandler(svc, logger))

			// Budgets
			r.Get("/budgets", listBudgetsHandler(svc, logger))
			r.Post("/budgets", createBudgetHandler(svc, logger))
			r.Put("/budgets/{budgetId}", updateBudgetHandler(svc, logger))
			r.Delete("/budgets/{budgetId}", deleteBudgetHandler(svc, logger))

			// Metrics snapshot
			r.Get("/metrics/summary", metricsSummaryHandler(metrics, logger))
		})
	})

	return r
}

// ============================================================
// Probes & metrics
// ============================================================

func healthzHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "ledgerly-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		start := time.Now()
		err := svc.Ping(ctx)
		latency := time.Since(start).Milliseconds()
		status := "healthy"
		if err != nil {
			status = "degraded"
			logger.Warn("healthz: storage ping failed", zap.Error(err))
		}
		services = append(services, domain.ServiceHealth{
			Name: "postgres", Status: status, LatencyMs: latency, LastChecked: now,
		})

		overall := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func metricsSummaryHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}

// ============================================================
// Dashboard
// ============================================================

func dashboardHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		summary, err := svc.GetDashboard(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
