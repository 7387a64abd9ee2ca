package models

import "time"

// Operation identifies an upstream query kind.
type Operation string

const (
	OpBeds    Operation = "beds"
	OpClaim   Operation = "claim"
	OpSlots   Operation = "slots"
	OpRecords Operation = "records"
	OpUnknown Operation = "unknown"
)

// Capability scopes required per operation
const (
	ScopeBedsRead         = "beds:read"
	ScopeClaimsRead       = "claims:read"
	ScopeAppointmentsRead = "appointments:read"
	ScopeRecordsRead      = "records:read"
)

// AllScopes lists every capability the gateway knows about.
var AllScopes = []string{ScopeBedsRead, ScopeClaimsRead, ScopeAppointmentsRead, ScopeRecordsRead}

// RequiredScope returns the capability scope needed to dispatch the operation upstream.
// Unknown has no scope because it is never dispatched.
func (o Operation) RequiredScope() string {
	switch o {
	case OpBeds:
		return ScopeBedsRead
	case OpClaim:
		return ScopeClaimsRead
	case OpSlots:
		return ScopeAppointmentsRead
	case OpRecords:
		return ScopeRecordsRead
	}
	return ""
}

// ParsedRequest is the classifier output. Exactly one of the query fields is
// non-nil for a known operation; all are nil for OpUnknown.
type ParsedRequest struct {
	Operation Operation
	Beds      *BedsQuery
	Claim     *ClaimQuery
	Slots     *SlotsQuery
	Records   *RecordsQuery
}

// BedsQuery asks for bed availability in a department.
type BedsQuery struct {
	Department string
}

// ClaimQuery asks for the status of an insurance claim.
type ClaimQuery struct {
	ClaimID string
}

// SlotsQuery asks for appointment slots. Date holds the literal token the
// prompt used ("today" or "tomorrow"); the orchestrator resolves it to a
// calendar date at dispatch time.
type SlotsQuery struct {
	Doctor string
	Date   string
}

// RecordsQuery asks for a patient's medical records.
type RecordsQuery struct {
	PatientID string
}

// QueryRequest is the body of POST /assistant/query.
type QueryRequest struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt"`
}

// QueryResponse is the assistant's structured answer. Success is false for
// classification misses and upstream failures; the HTTP status stays 200 so
// callers always get the structured shape.
type QueryResponse struct {
	SessionID string    `json:"session_id"`
	Intent    Operation `json:"intent"`
	Success   bool      `json:"success"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
}

// BedAvailability is the upstream bed availability payload.
type BedAvailability struct {
	Department string    `json:"department"`
	Available  int       `json:"available"`
	Total      int       `json:"total"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ClaimStatus is the upstream claim status payload.
type ClaimStatus struct {
	ClaimID        string    `json:"claim_id"`
	Status         string    `json:"status"`
	ApprovedAmount *float64  `json:"approved_amount"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AppointmentSlot is a single bookable slot.
type AppointmentSlot struct {
	Doctor    string    `json:"doctor"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// AppointmentSlots is the upstream slot listing payload.
type AppointmentSlots struct {
	Doctor string            `json:"doctor"`
	Date   string            `json:"date"`
	Slots  []AppointmentSlot `json:"slots"`
}

// PatientRecord is the upstream patient record payload.
type PatientRecord struct {
	PatientID    string         `json:"patient_id"`
	Demographics map[string]any `json:"demographics"`
	Allergies    []string       `json:"allergies"`
	Medications  []string       `json:"medications"`
	Diagnoses    []string       `json:"diagnoses"`
}
