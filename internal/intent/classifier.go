package intent

import (
	"regexp"
	"strings"

	"caregate/internal/models"
)

var (
	claimRe   = regexp.MustCompile(`claim\s*#?(\w+)`)
	doctorRe  = regexp.MustCompile(`(?i)dr\.?\s+([a-zA-Z]+)`)
	patientRe = regexp.MustCompile(`patient\s*#?(\w+)`)
)

// Classify maps a free-form operator prompt to a structured operation.
// Matching is case-insensitive and runs in fixed priority order; the first
// branch that matches wins. Prompts that match nothing come back as
// OpUnknown — Classify never fails.
func Classify(prompt string) models.ParsedRequest {
	lower := strings.ToLower(prompt)

	if strings.Contains(lower, "bed") || strings.Contains(lower, "icu") {
		department := "General"
		if strings.Contains(lower, "icu") {
			department = "ICU"
		}
		return models.ParsedRequest{
			Operation: models.OpBeds,
			Beds:      &models.BedsQuery{Department: department},
		}
	}

	// A "claim" mention without a claim id falls through to the later
	// branches instead of matching with an empty id.
	if strings.Contains(lower, "claim") {
		if m := claimRe.FindStringSubmatch(lower); m != nil {
			return models.ParsedRequest{
				Operation: models.OpClaim,
				Claim:     &models.ClaimQuery{ClaimID: m[1]},
			}
		}
	}

	if strings.Contains(lower, "slot") || strings.Contains(lower, "appointment") {
		doctor := "Unknown"
		if m := doctorRe.FindStringSubmatch(prompt); m != nil {
			doctor = m[1]
		}
		date := "today"
		if strings.Contains(lower, "tomorrow") {
			date = "tomorrow"
		}
		return models.ParsedRequest{
			Operation: models.OpSlots,
			Slots:     &models.SlotsQuery{Doctor: doctor, Date: date},
		}
	}

	if strings.Contains(lower, "record") {
		if m := patientRe.FindStringSubmatch(lower); m != nil {
			return models.ParsedRequest{
				Operation: models.OpRecords,
				Records:   &models.RecordsQuery{PatientID: m[1]},
			}
		}
	}

	return models.ParsedRequest{Operation: models.OpUnknown}
}
