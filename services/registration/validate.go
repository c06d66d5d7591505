package registration

import (
	"fmt"
	"sort"
	"strings"

	"marche/models"
	"marche/utils"

	"github.com/google/uuid"
)

// normalizeInput validates a registration form and drops the fields that do
// not belong to the chosen offering kind. Submissions must carry an offering.
// known holds the slot ids the registration already owns.
func normalizeInput(in *models.RegistrationInput, action Action, known map[string]bool) error {
	switch in.OfferingKind {
	case models.OfferingGoods:
		in.TimeSlots = nil
		in.OnlineBookingEnabled = false
		for i, p := range in.Products {
			if strings.TrimSpace(p.Name) == "" {
				return utils.NewValidationError("invalid_product", fmt.Sprintf("product %d needs a name", i+1))
			}
			if p.Price < 0 {
				return utils.NewValidationError("invalid_product", fmt.Sprintf("product %s has a negative price", p.Name))
			}
		}
		if action == ActionSubmit && len(in.Products) == 0 {
			return utils.NewValidationError("products_required", "add at least one product before submitting")
		}

	case models.OfferingService:
		in.Products = nil
		if err := normalizeSlots(in.TimeSlots, known); err != nil {
			return err
		}
		if action == ActionSubmit && len(in.TimeSlots) == 0 {
			return utils.NewValidationError("time_slots_required", "add at least one time slot before submitting")
		}

	default:
		return utils.NewValidationError("invalid_offering_kind", "offeringKind must be goods or service")
	}
	return nil
}

// normalizeSlots checks slot times and rejects overlaps. A slot keeps its id
// only when the registration already owns it; every other slot gets a fresh
// one, so an id can never be borrowed from another registration.
func normalizeSlots(slots []models.TimeSlot, known map[string]bool) error {
	type span struct{ start, end int }
	spans := make([]span, len(slots))
	seen := make(map[string]bool, len(slots))
	for i := range slots {
		start, err := ParseClock(slots[i].StartTime)
		if err != nil {
			return utils.NewValidationError("invalid_time", err.Error())
		}
		end, err := ParseClock(slots[i].EndTime)
		if err != nil {
			return utils.NewValidationError("invalid_time", err.Error())
		}
		if end <= start {
			return utils.NewValidationError("invalid_time", fmt.Sprintf("slot %s-%s ends before it starts", slots[i].StartTime, slots[i].EndTime))
		}
		if !known[slots[i].ID] {
			slots[i].ID = uuid.New().String()
		}
		if seen[slots[i].ID] {
			return utils.NewValidationError("duplicate_slot", "time slot ids must be unique")
		}
		seen[slots[i].ID] = true
		spans[i] = span{start, end}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return utils.NewValidationError("overlapping_slots", "time slots must not overlap")
		}
	}
	return nil
}
