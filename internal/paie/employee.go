// Package paie holds the payroll and budget domain model shared by the
// console: entities as the manager API serves them, the status enums and
// the transition rules the lifecycle controller enforces.
package paie

import "time"

// Role enumerates employee roles known to the manager API.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleEmploye     Role = "employe"
	RoleComptable   Role = "comptable"
	RoleVeterinaire Role = "veterinaire"
	RoleChauffeur   Role = "chauffeur"
	RoleAgriculteur Role = "agriculteur"
	RoleTechnicien  Role = "technicien"
)

// EmployeeStatus enumerates employment statuses.
type EmployeeStatus string

const (
	EmployeeActif    EmployeeStatus = "actif"
	EmployeeConge    EmployeeStatus = "congé"
	EmployeeInactif  EmployeeStatus = "inactif"
	EmployeeSuspendu EmployeeStatus = "suspendu"
)

// LeaveBalance summarises an employee's leave entitlement.
type LeaveBalance struct {
	Total     int `json:"total"`
	Used      int `json:"utilise"`
	Remaining int `json:"restant"`
}

// Employee is read-mostly on the client: the server owns every field and the
// console only replaces whole snapshots on refresh.
type Employee struct {
	ID               int64          `json:"id"`
	FullName         string         `json:"nom_complet"`
	Matricule        string         `json:"matricule"`
	Email            string         `json:"email"`
	Role             Role           `json:"role"`
	ContractType     string         `json:"type_contrat"`
	Status           EmployeeStatus `json:"statut"`
	PresenceRate     float64        `json:"taux_presence"`
	PerformanceScore float64        `json:"score_performance"`
	LeaveBalance     LeaveBalance   `json:"solde_conges"`
}

// EntityID implements store.Entity.
func (e Employee) EntityID() int64 { return e.ID }

// PresenceStatus enumerates daily attendance states.
type PresenceStatus string

const (
	PresencePresent PresenceStatus = "present"
	PresenceAbsent  PresenceStatus = "absent"
	PresenceRetard  PresenceStatus = "retard"
	PresenceConge   PresenceStatus = "congé"
)

// Presence is one employee's attendance row for one day.
type Presence struct {
	ID         int64          `json:"id"`
	EmployeeID int64          `json:"employe_id"`
	Employee   string         `json:"employe_nom"`
	Date       string         `json:"date"`
	CheckIn    string         `json:"heure_arrivee"`
	CheckOut   string         `json:"heure_depart"`
	Status     PresenceStatus `json:"statut"`
}

// EntityID implements store.Entity.
func (p Presence) EntityID() int64 { return p.ID }

// LeaveRequest is an employee's ask for time off.
type LeaveRequest struct {
	ID         int64         `json:"id"`
	EmployeeID int64         `json:"employe_id"`
	Employee   string        `json:"employe_nom"`
	Type       string        `json:"type"`
	Start      time.Time     `json:"date_debut"`
	End        time.Time     `json:"date_fin"`
	Days       int           `json:"jours"`
	Status     RequestStatus `json:"statut"`
	Reason     string        `json:"motif"`
}

// EntityID implements store.Entity.
func (l LeaveRequest) EntityID() int64 { return l.ID }
