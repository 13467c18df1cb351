package domain

import "strings"

// Action is a workflow verb requested against a content item. The closed set
// below is the engine's entire inbound vocabulary; callers always name their
// intent explicitly, the engine never infers it.
type Action string

const (
	// ActionSubmitForReview hands a draft to a named reviewer.
	ActionSubmitForReview Action = "submit_for_review"
	// ActionSendForApproval hands an item to a named approver.
	ActionSendForApproval Action = "send_for_approval"
	// ActionApprove clears an item at the approver tier. On a translation
	// item this lands in the translated stage rather than approved.
	ActionApprove Action = "approve"
	// ActionMarkTranslated advances an approved parent without translations.
	ActionMarkTranslated Action = "mark_translated"
	// ActionPublish makes an item live and cascades to its translations.
	ActionPublish Action = "publish"
	// ActionSendBack returns an item to draft.
	ActionSendBack Action = "send_back"
)

var knownActions = map[Action]struct{}{
	ActionSubmitForReview: {},
	ActionSendForApproval: {},
	ActionApprove:         {},
	ActionMarkTranslated:  {},
	ActionPublish:         {},
	ActionSendBack:        {},
}

// Known reports whether the action belongs to the closed verb set.
func (a Action) Known() bool {
	_, ok := knownActions[a]
	return ok
}

// NormalizeAction coerces arbitrary action strings into the verb vocabulary.
// Hyphenated spellings are accepted for wire compatibility.
func NormalizeAction(input string) Action {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return Action(normalized)
}
