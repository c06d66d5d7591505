package registration

import (
	"testing"

	"marche/models"
	"marche/utils"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  models.RegistrationStatus
		action   Action
		approval bool
		want     models.RegistrationStatus
		wantKind utils.ErrorKind
	}{
		{"new draft", "", ActionSaveDraft, true, models.StatusDraft, ""},
		{"draft stays draft", models.StatusDraft, ActionSaveDraft, true, models.StatusDraft, ""},
		{"edit submitted stays submitted", models.StatusSubmitted, ActionSaveDraft, true, models.StatusSubmitted, ""},
		{"submit new", "", ActionSubmit, true, models.StatusSubmitted, ""},
		{"submit draft", models.StatusDraft, ActionSubmit, true, models.StatusSubmitted, ""},
		{"auto approve new", "", ActionSubmit, false, models.StatusApproved, ""},
		{"auto approve draft", models.StatusDraft, ActionSubmit, false, models.StatusApproved, ""},
		{"double submit", models.StatusSubmitted, ActionSubmit, true, "", utils.KindConflict},
		{"approve submitted", models.StatusSubmitted, ActionApprove, true, models.StatusApproved, ""},
		{"reject submitted", models.StatusSubmitted, ActionReject, true, models.StatusRejected, ""},
		{"approve draft", models.StatusDraft, ActionApprove, true, "", utils.KindConflict},
		{"reject new", "", ActionReject, true, "", utils.KindConflict},
		{"approved is final", models.StatusApproved, ActionReject, true, "", utils.KindConflict},
		{"rejected is final", models.StatusRejected, ActionApprove, true, "", utils.KindConflict},
		{"no edit after approval", models.StatusApproved, ActionSaveDraft, true, "", utils.KindConflict},
		{"no resubmit after rejection", models.StatusRejected, ActionSubmit, false, "", utils.KindConflict},
		{"unknown action", models.StatusDraft, Action("publish"), true, "", utils.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextStatus(tc.current, tc.action, tc.approval)
			if tc.wantKind != "" {
				if utils.KindOf(err) != tc.wantKind {
					t.Fatalf("want %s error, got %v", tc.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}
