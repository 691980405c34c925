package filter

// Trigger is one input to an orchestrator evaluation: the periodic tick or
// one of the operator's dialog actions.
type Trigger string

const (
	// TriggerTick is the periodic, timer-driven evaluation.
	TriggerTick Trigger = "tick"
	// TriggerApprove enables the fan from the decision modal.
	TriggerApprove Trigger = "approve"
	// TriggerDecline refuses the fan from the decision modal.
	TriggerDecline Trigger = "decline"
	// TriggerDefer20 postpones the decision by twenty minutes.
	TriggerDefer20 Trigger = "defer-20"
	// TriggerDefer60 postpones the decision by one hour.
	TriggerDefer60 Trigger = "defer-60"
	// TriggerDisclaimerConfirm insists on keeping the fan off.
	TriggerDisclaimerConfirm Trigger = "disclaimer-confirm"
	// TriggerDisclaimerCancel backs out of the disclaimer and enables the fan.
	TriggerDisclaimerCancel Trigger = "disclaimer-cancel"
	// TriggerCautionAck closes the informational caution dialog.
	TriggerCautionAck Trigger = "caution-acknowledge"
)

// ParseTrigger converts wire input to a Trigger.
func ParseTrigger(s string) (Trigger, bool) {
	switch Trigger(s) {
	case TriggerTick, TriggerApprove, TriggerDecline, TriggerDefer20,
		TriggerDefer60, TriggerDisclaimerConfirm, TriggerDisclaimerCancel,
		TriggerCautionAck:
		return Trigger(s), true
	default:
		return "", false
	}
}

// Phase is the derived, mutually exclusive dialog state of the session.
type Phase string

const (
	// PhaseIdle means no dialog is open.
	PhaseIdle Phase = "IDLE"
	// PhasePrompting means the main decision modal is open.
	PhasePrompting Phase = "PROMPTING"
	// PhaseDisclaiming means the confirmation-of-risk dialog is open.
	PhaseDisclaiming Phase = "DISCLAIMING"
	// PhaseCautioning means the informational caution dialog is open.
	PhaseCautioning Phase = "CAUTIONING"
)

// Session holds the UI-visibility flags carried across orchestrator
// evaluations. The layer driving the tick/action loop owns its lifecycle and
// persists it between invocations; everything else is recomputed from the
// stores on each call.
type Session struct {
	// ModalOpen is true while the main decision modal is shown.
	ModalOpen bool `json:"modal_open"`
	// DisclaimerOpen is true while the confirmation-of-risk dialog is shown.
	DisclaimerOpen bool `json:"disclaimer_open"`
	// CautionOpen is true while the informational caution dialog is shown.
	CautionOpen bool `json:"caution_open"`
}

// Clone returns a copy of the session to avoid leaking internal references.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Phase derives the mutually exclusive dialog state from the flags.
// At most one flag is ever set by the orchestrator; should corrupted state
// present several, the most advanced dialog wins so the operator is never
// shown two dialogs at once.
func (s *Session) Phase() Phase {
	switch {
	case s.CautionOpen:
		return PhaseCautioning
	case s.DisclaimerOpen:
		return PhaseDisclaiming
	case s.ModalOpen:
		return PhasePrompting
	default:
		return PhaseIdle
	}
}

// View is the presentation tuple handed to the UI once per evaluation.
type View struct {
	// MainModalOpen tells the UI to show the decision modal.
	MainModalOpen bool `json:"main_modal_open"`
	// DisclaimerOpen tells the UI to show the confirmation-of-risk dialog.
	DisclaimerOpen bool `json:"disclaimer_open"`
	// CautionOpen tells the UI to show the informational caution dialog.
	CautionOpen bool `json:"caution_open"`
	// StatusText is the advisory status line for the dashboard. It is never
	// persisted and never drives comparison logic.
	StatusText string `json:"status_text"`
}
