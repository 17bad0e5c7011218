package paie

import "time"

// RequestStatus is shared by payment, budget and leave requests.
type RequestStatus string

const (
	RequestEnAttente RequestStatus = "en_attente"
	RequestApprouve  RequestStatus = "approuve"
	RequestRejete    RequestStatus = "rejete"
)

// Terminal reports whether the status admits no further transition.
func (s RequestStatus) Terminal() bool {
	return s == RequestApprouve || s == RequestRejete
}

// Urgency grades how pressing a request is.
type Urgency string

const (
	UrgencyNormal      Urgency = "normal"
	UrgencyPrioritaire Urgency = "prioritaire"
	UrgencyUrgent      Urgency = "urgent"
)

// UrgencyForWait maps days waited since submission to an urgency grade.
func UrgencyForWait(days int) Urgency {
	switch {
	case days >= 14:
		return UrgencyUrgent
	case days >= 7:
		return UrgencyPrioritaire
	default:
		return UrgencyNormal
	}
}

// PaymentRequest is an employee's ask to receive an already-computed salary
// ahead of the normal cycle. Approval flips the linked salary to paid
// server-side; rejection leaves it untouched.
type PaymentRequest struct {
	ID            int64         `json:"id"`
	EmployeeID    int64         `json:"employe_id"`
	Employee      string        `json:"employe_nom"`
	SalaryID      int64         `json:"salaire_id"`
	Amount        float64       `json:"montant"`
	Justification string        `json:"justification"`
	Urgency       Urgency       `json:"urgence"`
	Status        RequestStatus `json:"statut"`
	CreatedAt     time.Time     `json:"date_creation"`
	ProcessedAt   *time.Time    `json:"date_traitement,omitempty"`
	AdminComment  string        `json:"commentaire_admin,omitempty"`
}

// EntityID implements store.Entity.
func (r PaymentRequest) EntityID() int64 { return r.ID }

// BudgetRequest is a department-level ask for additional allocation against
// the annual budget. ApprovedAmount is set only on approval and is never
// allowed above Amount.
type BudgetRequest struct {
	ID             int64         `json:"id"`
	Department     string        `json:"departement,omitempty"`
	Amount         float64       `json:"montant"`
	Category       string        `json:"categorie"`
	Justification  string        `json:"justification"`
	Urgency        Urgency       `json:"urgence"`
	Status         RequestStatus `json:"statut"`
	ApprovedAmount *float64      `json:"montant_approuve,omitempty"`
	AdminResponse  string        `json:"reponse_admin,omitempty"`
	CreatedAt      time.Time     `json:"date_creation"`
}

// EntityID implements store.Entity.
func (r BudgetRequest) EntityID() int64 { return r.ID }

// BudgetOverview is the server-computed aggregate for one year. The console
// must not rebuild it from raw expense lists; drift between the two views is
// resolved by re-fetching, never by local arithmetic.
type BudgetOverview struct {
	Year             int     `json:"annee"`
	Allocated        float64 `json:"alloue"`
	Spent            float64 `json:"depense"`
	Available        float64 `json:"disponible"`
	SpentPercent     float64 `json:"pourcentage_depense"`
	AvailablePercent float64 `json:"pourcentage_disponible"`
}
