package paie

import "time"

// SalaryStatus is the payment-status axis of a salary record.
type SalaryStatus string

const (
	SalaryCalcule SalaryStatus = "calculé"
	SalaryPaye    SalaryStatus = "payé"
	SalaryReporte SalaryStatus = "reporté"
	SalaryAnnule  SalaryStatus = "annulé"
)

// PaymentMode enumerates the supported ways of paying a salary.
type PaymentMode string

const (
	ModeVirement PaymentMode = "virement"
	ModeCheque   PaymentMode = "cheque"
	ModeEspeces  PaymentMode = "especes"
)

// Deductions itemises what the server withheld from a gross salary.
type Deductions struct {
	SocialSecurity float64 `json:"securite_sociale"`
	Tax            float64 `json:"impots"`
	Other          float64 `json:"autres"`
	Advances       float64 `json:"avances"`
}

// Additions itemises what the server added on top of a gross salary.
type Additions struct {
	Bonuses     float64 `json:"primes"`
	Allowances  float64 `json:"indemnites"`
	Commissions float64 `json:"commissions"`
}

// Salary is one employee's computed pay record for one month. Net is
// server-computed; the console displays it and never re-derives it from
// gross, deductions and additions.
type Salary struct {
	ID                 int64        `json:"id"`
	EmployeeID         int64        `json:"employe_id"`
	Employee           string       `json:"employe_nom"`
	Matricule          string       `json:"matricule"`
	Month              int          `json:"mois"`
	Year               int          `json:"annee"`
	Gross              float64      `json:"salaire_brut"`
	Deductions         Deductions   `json:"deductions"`
	Additions          Additions    `json:"additions"`
	Net                float64      `json:"salaire_net"`
	Status             SalaryStatus `json:"statut_paiement"`
	Mode               PaymentMode  `json:"mode_paiement,omitempty"`
	PaymentDate        *time.Time   `json:"date_paiement,omitempty"`
	PaymentReference   string       `json:"reference_paiement,omitempty"`
	ReceptionConfirmed bool         `json:"confirme_reception"`

	// Processing marks an optimistic in-flight transition. It never comes
	// from the wire and is dropped by the next authoritative refresh.
	Processing bool `json:"-"`
}

// EntityID implements store.Entity.
func (s Salary) EntityID() int64 { return s.ID }

// Payable reports whether the pay action is currently legal for s.
func (s Salary) Payable() bool {
	return s.Status == SalaryCalcule && !s.Processing
}

// Remindable reports whether the reception-reminder side channel is open:
// only once paid and only until the employee confirms.
func (s Salary) Remindable() bool {
	return s.Status == SalaryPaye && !s.ReceptionConfirmed
}
