package stubserver

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agropaie/agropaie/internal/httpx"
	"github.com/agropaie/agropaie/internal/paie"
)

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	statut := r.URL.Query().Get("statut")
	role := r.URL.Query().Get("role")
	search := strings.ToLower(r.URL.Query().Get("search"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]paie.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if statut != "" && string(e.Status) != statut {
			continue
		}
		if role != "" && string(e.Role) != role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.FullName), search) &&
			!strings.Contains(strings.ToLower(e.Matricule), search) &&
			!strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		out = append(out, e)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (s *Server) listPresences(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.presences[date]
	if items == nil {
		items = []paie.Presence{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (s *Server) listLeaves(w http.ResponseWriter, r *http.Request) {
	statut := r.URL.Query().Get("statut")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]paie.LeaveRequest, 0, len(s.leaves))
	for _, l := range s.leaves {
		if statut != "" && string(l.Status) != statut {
			continue
		}
		out = append(out, l)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (s *Server) listSalaries(w http.ResponseWriter, r *http.Request) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]paie.Salary, 0, len(s.salaries))
	for _, sal := range s.salaries {
		if month != 0 && sal.Month != month {
			continue
		}
		if year != 0 && sal.Year != year {
			continue
		}
		out = append(out, sal)
	}
	httpx.JSON(w, http.StatusOK, out)
}

type payBody struct {
	Mode      paie.PaymentMode `json:"mode_paiement"`
	Date      time.Time        `json:"date_paiement"`
	Reference string           `json:"reference_paiement"`
}

func (s *Server) paySalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var body payBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corps invalide")
		return
	}
	switch body.Mode {
	case paie.ModeVirement, paie.ModeCheque, paie.ModeEspeces:
	default:
		httpx.Fail(w, http.StatusUnprocessableEntity, "mode de paiement invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.salaries {
		if s.salaries[i].ID != id {
			continue
		}
		if err := paie.ValidateSalaryTransition(s.salaries[i].Status, paie.SalaryPaye); err != nil || s.salaries[i].Status == paie.SalaryPaye {
			httpx.Fail(w, http.StatusConflict, fmt.Sprintf("salaire déjà %s", s.salaries[i].Status))
			return
		}
		date := body.Date
		if date.IsZero() {
			date = time.Now()
		}
		s.salaries[i].Status = paie.SalaryPaye
		s.salaries[i].Mode = body.Mode
		s.salaries[i].PaymentDate = &date
		s.salaries[i].PaymentReference = body.Reference
		if s.salaries[i].PaymentReference == "" {
			s.salaries[i].PaymentReference = fmt.Sprintf("PAY-%04d", id)
		}
		s.salaries[i].ReceptionConfirmed = false
		httpx.OK(w)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "salaire introuvable")
}

func (s *Server) remindSalary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sal := range s.salaries {
		if sal.ID != id {
			continue
		}
		if !sal.Remindable() {
			httpx.Fail(w, http.StatusConflict, "rappel indisponible")
			return
		}
		httpx.OK(w)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "salaire introuvable")
}

func (s *Server) confirmReception(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.salaries {
		if s.salaries[i].ID != id {
			continue
		}
		if s.salaries[i].Status != paie.SalaryPaye {
			httpx.Fail(w, http.StatusConflict, "salaire non payé")
			return
		}
		s.salaries[i].ReceptionConfirmed = true
		httpx.OK(w)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "salaire introuvable")
}

func (s *Server) listPaymentRequests(w http.ResponseWriter, r *http.Request) {
	statut := r.URL.Query().Get("statut")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]paie.PaymentRequest, 0, len(s.paymentRequests))
	for _, pr := range s.paymentRequests {
		if statut != "" && string(pr.Status) != statut {
			continue
		}
		out = append(out, pr)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (s *Server) createPaymentRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SalaryID      int64   `json:"salaire_id"`
		Amount        float64 `json:"montant"`
		Justification string  `json:"justification"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corps invalide")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sal := range s.salaries {
		if sal.ID != body.SalaryID {
			continue
		}
		if body.Amount <= 0 || body.Amount > sal.Net {
			httpx.Fail(w, http.StatusUnprocessableEntity, "montant supérieur au salaire net")
			return
		}
		req := paie.PaymentRequest{
			ID:            s.id(),
			EmployeeID:    sal.EmployeeID,
			Employee:      sal.Employee,
			SalaryID:      sal.ID,
			Amount:        body.Amount,
			Justification: body.Justification,
			Urgency:       paie.UrgencyNormal,
			Status:        paie.RequestEnAttente,
			CreatedAt:     time.Now(),
		}
		s.paymentRequests = append(s.paymentRequests, req)
		httpx.JSON(w, http.StatusCreated, req)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "salaire introuvable")
}

type processBody struct {
	Action         string   `json:"action"`
	Comment        string   `json:"commentaire"`
	ApprovedAmount *float64 `json:"montant_approuve"`
	Response       string   `json:"reponse"`
}

func (s *Server) processPaymentRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var body processBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corps invalide")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.paymentRequests {
		pr := &s.paymentRequests[i]
		if pr.ID != id {
			continue
		}
		if pr.Status.Terminal() {
			httpx.Fail(w, http.StatusConflict, "demande déjà traitée")
			return
		}
		now := time.Now()
		pr.ProcessedAt = &now
		pr.AdminComment = body.Comment
		if body.Action == "approve" {
			pr.Status = paie.RequestApprouve
			// Approval pays the linked salary in the same transaction.
			for j := range s.salaries {
				if s.salaries[j].ID == pr.SalaryID && s.salaries[j].Status == paie.SalaryCalcule {
					s.salaries[j].Status = paie.SalaryPaye
					s.salaries[j].Mode = paie.ModeVirement
					s.salaries[j].PaymentDate = &now
					s.salaries[j].PaymentReference = fmt.Sprintf("PAY-%04d", pr.SalaryID)
				}
			}
		} else {
			pr.Status = paie.RequestRejete
		}
		httpx.OK(w)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "demande introuvable")
}

func (s *Server) listBudgetRequests(w http.ResponseWriter, r *http.Request) {
	statut := r.URL.Query().Get("statut")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]paie.BudgetRequest, 0, len(s.budgetRequests))
	for _, br := range s.budgetRequests {
		if statut != "" && string(br.Status) != statut {
			continue
		}
		out = append(out, br)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (s *Server) createBudgetRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount        float64      `json:"montant"`
		Category      string       `json:"categorie"`
		Justification string       `json:"justification"`
		Urgency       paie.Urgency `json:"urgence"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corps invalide")
		return
	}
	if body.Amount <= 0 || body.Category == "" || body.Justification == "" {
		httpx.Fail(w, http.StatusUnprocessableEntity, "champs obligatoires manquants")
		return
	}
	if body.Urgency == "" {
		body.Urgency = paie.UrgencyNormal
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req := paie.BudgetRequest{
		ID:            s.id(),
		Amount:        body.Amount,
		Category:      body.Category,
		Justification: body.Justification,
		Urgency:       body.Urgency,
		Status:        paie.RequestEnAttente,
		CreatedAt:     time.Now(),
	}
	s.budgetRequests = append(s.budgetRequests, req)
	httpx.JSON(w, http.StatusCreated, req)
}

func (s *Server) processBudgetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "identifiant invalide")
		return
	}
	var body processBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "corps invalide")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgetRequests {
		br := &s.budgetRequests[i]
		if br.ID != id {
			continue
		}
		if br.Status.Terminal() {
			httpx.Fail(w, http.StatusConflict, "demande déjà traitée")
			return
		}
		if body.Action == "approve" {
			amount := br.Amount
			if body.ApprovedAmount != nil {
				if *body.ApprovedAmount > br.Amount {
					httpx.Fail(w, http.StatusUnprocessableEntity, "montant approuvé supérieur au montant demandé")
					return
				}
				amount = *body.ApprovedAmount
			}
			br.Status = paie.RequestApprouve
			br.ApprovedAmount = &amount
		} else {
			br.Status = paie.RequestRejete
		}
		if body.Response != "" {
			br.AdminResponse = body.Response
		} else {
			br.AdminResponse = body.Comment
		}
		httpx.OK(w)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "demande introuvable")
}

func (s *Server) budgetOverview(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.overviews[year]; ok {
		httpx.JSON(w, http.StatusOK, o)
		return
	}
	httpx.Fail(w, http.StatusNotFound, "exercice inconnu")
}

func (s *Server) generateReport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type   string `json:"type"`
		Format string `json:"format"`
		Period string `json:"period"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Type == "" || body.Format == "" {
		httpx.Fail(w, http.StatusBadRequest, "type et format requis")
		return
	}
	content := base64.StdEncoding.EncodeToString([]byte("rapport " + body.Type + " " + body.Period))
	httpx.JSON(w, http.StatusOK, map[string]string{
		"filename": fmt.Sprintf("rapport-%s-%s.%s", body.Type, body.Period, body.Format),
		"mime":     "application/octet-stream",
		"contenu":  content,
	})
}
