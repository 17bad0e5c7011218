// Package stubserver is an in-process stand-in for the manager API, serving
// seeded fixtures over the same routes and envelopes the production server
// uses. It enforces the same transition rules server-side, which is what
// lets integration tests provoke partial bulk failures, stale-cache
// conflicts and expired sessions against a real HTTP boundary. The CLI's
// --demo mode runs it too.
package stubserver

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agropaie/agropaie/internal/paie"
)

// Server holds the stub's mutable state.
type Server struct {
	mu     sync.Mutex
	token  string
	logger *slog.Logger

	employees       []paie.Employee
	presences       map[string][]paie.Presence
	leaves          []paie.LeaveRequest
	salaries        []paie.Salary
	paymentRequests []paie.PaymentRequest
	budgetRequests  []paie.BudgetRequest
	overviews       map[int]paie.BudgetOverview
	nextID          int64
}

// New constructs a seeded stub accepting the given bearer token.
func New(token string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		token:     token,
		logger:    logger,
		presences: make(map[string][]paie.Presence),
		overviews: make(map[int]paie.BudgetOverview),
		nextID:    1000,
	}
	s.seed()
	return s
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) seed() {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	s.employees = []paie.Employee{
		{ID: 1, FullName: "Émile Fournier", Matricule: "EMP-001", Email: "emile@agropaie.local", Role: paie.RoleAgriculteur, ContractType: "CDI", Status: paie.EmployeeActif, PresenceRate: 0.96, PerformanceScore: 4.2, LeaveBalance: paie.LeaveBalance{Total: 30, Used: 8, Remaining: 22}},
		{ID: 2, FullName: "Awa Diallo", Matricule: "EMP-002", Email: "awa@agropaie.local", Role: paie.RoleVeterinaire, ContractType: "CDI", Status: paie.EmployeeActif, PresenceRate: 0.99, PerformanceScore: 4.8, LeaveBalance: paie.LeaveBalance{Total: 30, Used: 2, Remaining: 28}},
		{ID: 3, FullName: "Étienne Campos", Matricule: "EMP-003", Email: "etienne@agropaie.local", Role: paie.RoleChauffeur, ContractType: "CDD", Status: paie.EmployeeConge, PresenceRate: 0.91, PerformanceScore: 3.7, LeaveBalance: paie.LeaveBalance{Total: 25, Used: 20, Remaining: 5}},
		{ID: 4, FullName: "Claire Dubois", Matricule: "EMP-004", Email: "claire@agropaie.local", Role: paie.RoleComptable, ContractType: "CDI", Status: paie.EmployeeActif, PresenceRate: 1.0, PerformanceScore: 4.5, LeaveBalance: paie.LeaveBalance{Total: 30, Used: 12, Remaining: 18}},
	}

	paid := now.AddDate(0, 0, -3)
	s.salaries = []paie.Salary{
		{ID: 11, EmployeeID: 1, Employee: "Émile Fournier", Matricule: "EMP-001", Month: month, Year: year, Gross: 2400, Deductions: paie.Deductions{SocialSecurity: 180, Tax: 220}, Additions: paie.Additions{Bonuses: 100}, Net: 2100, Status: paie.SalaryCalcule},
		{ID: 12, EmployeeID: 2, Employee: "Awa Diallo", Matricule: "EMP-002", Month: month, Year: year, Gross: 3200, Deductions: paie.Deductions{SocialSecurity: 240, Tax: 360}, Additions: paie.Additions{Allowances: 150}, Net: 2750, Status: paie.SalaryCalcule},
		{ID: 13, EmployeeID: 3, Employee: "Étienne Campos", Matricule: "EMP-003", Month: month, Year: year, Gross: 1900, Deductions: paie.Deductions{SocialSecurity: 140, Tax: 130}, Additions: paie.Additions{}, Net: 1630, Status: paie.SalaryPaye, Mode: paie.ModeVirement, PaymentDate: &paid, PaymentReference: "PAY-0013"},
		{ID: 14, EmployeeID: 4, Employee: "Claire Dubois", Matricule: "EMP-004", Month: month, Year: year, Gross: 2800, Deductions: paie.Deductions{SocialSecurity: 210, Tax: 290}, Additions: paie.Additions{Commissions: 60}, Net: 2360, Status: paie.SalaryReporte},
	}

	created := now.AddDate(0, 0, -9)
	s.paymentRequests = []paie.PaymentRequest{
		{ID: 21, EmployeeID: 1, Employee: "Émile Fournier", SalaryID: 11, Amount: 2100, Justification: "frais médicaux", Urgency: paie.UrgencyForWait(9), Status: paie.RequestEnAttente, CreatedAt: created},
	}
	s.budgetRequests = []paie.BudgetRequest{
		{ID: 31, Department: "Élevage", Amount: 50000, Category: "Équipement", Justification: "renouvellement du matériel de traite", Urgency: paie.UrgencyNormal, Status: paie.RequestEnAttente, CreatedAt: created},
	}
	s.leaves = []paie.LeaveRequest{
		{ID: 41, EmployeeID: 3, Employee: "Étienne Campos", Type: "annuel", Start: now.AddDate(0, 0, 7), End: now.AddDate(0, 0, 14), Days: 5, Status: paie.RequestEnAttente, Reason: "congés annuels"},
	}
	today := now.Format("2006-01-02")
	s.presences[today] = []paie.Presence{
		{ID: 51, EmployeeID: 1, Employee: "Émile Fournier", Date: today, CheckIn: "07:55", CheckOut: "17:02", Status: paie.PresencePresent},
		{ID: 52, EmployeeID: 2, Employee: "Awa Diallo", Date: today, CheckIn: "08:20", Status: paie.PresenceRetard},
		{ID: 53, EmployeeID: 3, Employee: "Étienne Campos", Date: today, Status: paie.PresenceConge},
	}
	s.overviews[year] = paie.BudgetOverview{Year: year, Allocated: 500000, Spent: 320000, Available: 180000, SpentPercent: 64, AvailablePercent: 36}
}

// ForcePay flips a salary to paid outside any client call, simulating a
// concurrent actor. Used by tests to provoke stale-cache conflicts.
func (s *Server) ForcePay(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.salaries {
		if s.salaries[i].ID == id && s.salaries[i].Status == paie.SalaryCalcule {
			now := time.Now()
			s.salaries[i].Status = paie.SalaryPaye
			s.salaries[i].Mode = paie.ModeVirement
			s.salaries[i].PaymentDate = &now
			s.salaries[i].PaymentReference = fmt.Sprintf("PAY-%04d", id)
			return true
		}
	}
	return false
}

// RevokeToken makes every subsequent call answer 401, simulating an expired
// session.
func (s *Server) RevokeToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
