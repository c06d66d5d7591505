package registration

import (
	"marche/models"
	"marche/utils"
)

// Action is something a provider or organizer does to a registration.
type Action string

const (
	ActionSaveDraft Action = "save_draft"
	ActionSubmit    Action = "submit"
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
)

// NextStatus is the registration state machine. current is "" for a
// registration that does not exist yet. approvalRequired is the owning
// event's policy: without it a submission lands directly in approved.
func NextStatus(current models.RegistrationStatus, action Action, approvalRequired bool) (models.RegistrationStatus, error) {
	switch current {
	case models.StatusApproved, models.StatusRejected:
		return "", utils.NewConflictError("registration_locked", "registration is "+string(current)+" and can no longer change")
	}

	switch action {
	case ActionSaveDraft:
		if current == models.StatusSubmitted {
			// Editing a submitted registration does not withdraw it.
			return models.StatusSubmitted, nil
		}
		return models.StatusDraft, nil

	case ActionSubmit:
		if current == models.StatusSubmitted {
			return "", utils.NewConflictError("already_submitted", "registration was already submitted")
		}
		if !approvalRequired {
			return models.StatusApproved, nil
		}
		return models.StatusSubmitted, nil

	case ActionApprove, ActionReject:
		if current != models.StatusSubmitted {
			return "", utils.NewConflictError("invalid_transition", "only submitted registrations can be "+decisionWord(action))
		}
		if action == ActionApprove {
			return models.StatusApproved, nil
		}
		return models.StatusRejected, nil
	}

	return "", utils.NewValidationError("invalid_action", "unknown registration action "+string(action))
}

func decisionWord(a Action) string {
	if a == ActionApprove {
		return "approved"
	}
	return "rejected"
}
