package cache

import "strings"

// Key builders produce the deterministic composite keys shared by the
// assistant orchestrator and the integration endpoints, so both surfaces
// draw from the same stale-fallback pool.

// BedsKey keys bed availability by normalized department.
func BedsKey(department string) string {
	return "beds:" + strings.ToLower(department)
}

// ClaimKey keys claim status by claim id.
func ClaimKey(claimID string) string {
	return "claims:" + strings.ToLower(claimID)
}

// SlotsKey keys slot listings by normalized doctor and ISO date.
func SlotsKey(doctor, date string) string {
	return "slots:" + strings.ToLower(doctor) + ":" + date
}

// RecordsKey keys patient records by patient id.
func RecordsKey(patientID string) string {
	return "records:" + strings.ToLower(patientID)
}
