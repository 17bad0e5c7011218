package stubserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/agropaie/agropaie/internal/httpx"
)

// Router builds the stub's HTTP handler with the same middleware posture a
// real deployment would have: security headers, per-IP rate limiting and
// bearer authentication.
func (s *Server) Router() http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})

	r := chi.NewRouter()
	r.Use(secureMiddleware.Handler)
	r.Use(httprate.LimitByIP(300, time.Minute))
	r.Use(s.requireBearer)

	r.Route("/manager", func(r chi.Router) {
		r.Get("/employees", s.listEmployees)
		r.Get("/presences", s.listPresences)
		r.Get("/conges", s.listLeaves)

		r.Get("/salaries", s.listSalaries)
		r.Post("/salaries/{id}/pay", s.paySalary)
		r.Post("/salaries/{id}/remind", s.remindSalary)
		r.Post("/salaries/{id}/confirm-reception", s.confirmReception)

		r.Get("/payment-requests", s.listPaymentRequests)
		r.Post("/payment-requests", s.createPaymentRequest)
		r.Post("/payment-requests/{id}/process", s.processPaymentRequest)

		r.Get("/budget-requests", s.listBudgetRequests)
		r.Post("/budget-requests", s.createBudgetRequest)
		r.Post("/budget-requests/{id}/process", s.processBudgetRequest)
		r.Get("/budget-overview", s.budgetOverview)

		r.Post("/reports/generate", s.generateReport)
	})
	return r
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || got != token {
			httpx.Fail(w, http.StatusUnauthorized, "session expirée")
			return
		}
		next.ServeHTTP(w, r)
	})
}
