package domain

import "strings"

// Stage represents the editorial workflow position of a content item.
type Stage string

const (
	// StageDraft indicates an item still under preparation by its author.
	StageDraft Stage = "draft"
	// StageNeedsReviewerReview marks an item handed to a reviewer.
	StageNeedsReviewerReview Stage = "needs_reviewer_review"
	// StageNeedsApproverReview marks an item handed to an approver.
	StageNeedsApproverReview Stage = "needs_approver_review"
	// StageApproved marks an item cleared for translation fan-out.
	StageApproved Stage = "approved"
	// StageTranslated marks an item whose translations are all complete (or
	// that explicitly skipped translation).
	StageTranslated Stage = "translated"
	// StagePublished is the terminal stage; published items feed stations.
	StagePublished Stage = "published"
)

// stageOrder is used only for display purposes (progress indicators).
// Transition legality comes from the explicit transition table, never from
// ordinal comparison, because send-back moves backward.
var stageOrder = map[Stage]int{
	StageDraft:               0,
	StageNeedsReviewerReview: 1,
	StageNeedsApproverReview: 2,
	StageApproved:            3,
	StageTranslated:          4,
	StagePublished:           5,
}

// Ordinal returns the display position of the stage, or -1 when unknown.
func (s Stage) Ordinal() int {
	if pos, ok := stageOrder[s]; ok {
		return pos
	}
	return -1
}

// Known reports whether the stage belongs to the editorial vocabulary.
func (s Stage) Known() bool {
	_, ok := stageOrder[s]
	return ok
}

// Terminal reports whether the stage admits no further transitions.
func (s Stage) Terminal() bool {
	return s == StagePublished
}

// NormalizeStage coerces arbitrary stage strings into the known vocabulary.
// Empty input maps to the initial stage.
func NormalizeStage(input string) Stage {
	if strings.TrimSpace(input) == "" {
		return StageDraft
	}
	return Stage(strings.ToLower(strings.TrimSpace(input)))
}

// TranslationCompletionStages is the set of stages a translation may occupy
// for its parent to be considered fully translated.
var TranslationCompletionStages = []Stage{StageApproved, StageTranslated, StagePublished}

// TranslationComplete reports whether the stage counts as "done" when
// aggregating sibling translations onto their parent.
func TranslationComplete(stage Stage) bool {
	for _, candidate := range TranslationCompletionStages {
		if stage == candidate {
			return true
		}
	}
	return false
}
