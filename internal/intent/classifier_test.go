package intent

import (
	"testing"

	"caregate/internal/models"
)

func TestClassifyBeds(t *testing.T) {
	tests := []struct {
		name       string
		prompt     string
		department string
	}{
		{"icu mention", "How many ICU beds are free?", "ICU"},
		{"lowercase icu", "any icu capacity left today?", "ICU"},
		{"general beds", "Are there beds available right now?", "General"},
		{"bed singular", "need a bed for an incoming patient", "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := Classify(tt.prompt)
			if parsed.Operation != models.OpBeds {
				t.Fatalf("Expected beds operation, got %s", parsed.Operation)
			}
			if parsed.Beds == nil {
				t.Fatal("Expected beds query to be populated")
			}
			if parsed.Beds.Department != tt.department {
				t.Errorf("Expected department %q, got %q", tt.department, parsed.Beds.Department)
			}
		})
	}
}

func TestClassifyClaim(t *testing.T) {
	parsed := Classify("What is the status of claim #7421?")
	if parsed.Operation != models.OpClaim {
		t.Fatalf("Expected claim operation, got %s", parsed.Operation)
	}
	if parsed.Claim == nil || parsed.Claim.ClaimID != "7421" {
		t.Errorf("Expected claim_id 7421, got %+v", parsed.Claim)
	}
}

func TestClassifyClaimWithoutID(t *testing.T) {
	// A claim mention with no id must not match the claim branch.
	parsed := Classify("I want to file a claim")
	if parsed.Operation == models.OpClaim {
		t.Error("Claim without an id should not classify as claim")
	}
	if parsed.Operation != models.OpUnknown {
		t.Errorf("Expected unknown, got %s", parsed.Operation)
	}
}

func TestClassifySlots(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		doctor string
		date   string
	}{
		{"doctor and tomorrow", "Any appointment slots for Dr. Sharma tomorrow?", "Sharma", "tomorrow"},
		{"dr without period", "slots for dr Patel please", "Patel", "today"},
		{"no doctor", "any open appointment slots?", "Unknown", "today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := Classify(tt.prompt)
			if parsed.Operation != models.OpSlots {
				t.Fatalf("Expected slots operation, got %s", parsed.Operation)
			}
			if parsed.Slots.Doctor != tt.doctor {
				t.Errorf("Expected doctor %q, got %q", tt.doctor, parsed.Slots.Doctor)
			}
			if parsed.Slots.Date != tt.date {
				t.Errorf("Expected date token %q, got %q", tt.date, parsed.Slots.Date)
			}
		})
	}
}

func TestClassifyRecords(t *testing.T) {
	parsed := Classify("Pull up the records for patient #P123")
	if parsed.Operation != models.OpRecords {
		t.Fatalf("Expected records operation, got %s", parsed.Operation)
	}
	if parsed.Records == nil || parsed.Records.PatientID != "p123" {
		t.Errorf("Expected patient_id p123, got %+v", parsed.Records)
	}
}

func TestClassifyRecordsWithoutPatient(t *testing.T) {
	parsed := Classify("show me the records")
	if parsed.Operation != models.OpUnknown {
		t.Errorf("Records without a patient id should be unknown, got %s", parsed.Operation)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Beds wins over slots when both keywords appear.
	parsed := Classify("bed or appointment, whichever is free")
	if parsed.Operation != models.OpBeds {
		t.Errorf("Expected beds to win on priority, got %s", parsed.Operation)
	}
}

func TestClassifyUnknown(t *testing.T) {
	parsed := Classify("what's the cafeteria menu today?")
	if parsed.Operation != models.OpUnknown {
		t.Fatalf("Expected unknown operation, got %s", parsed.Operation)
	}
	if parsed.Beds != nil || parsed.Claim != nil || parsed.Slots != nil || parsed.Records != nil {
		t.Error("Unknown result should carry no entities")
	}
}
