package workflow

import (
	"sort"

	"github.com/goliatone/go-newsroom/internal/domain"
)

// AssigneeSlot names the item field an accepted handoff assignee lands in.
type AssigneeSlot string

const (
	// AssigneeSlotNone marks transitions that take no assignee.
	AssigneeSlotNone AssigneeSlot = ""
	// AssigneeSlotReviewer stores the assignee as the item's reviewer.
	AssigneeSlotReviewer AssigneeSlot = "reviewer"
	// AssigneeSlotApprover stores the assignee as the item's approver.
	AssigneeSlotApprover AssigneeSlot = "approver"
)

// Rule declares one legal edge of the editorial state machine. Legality is
// decided by table lookup keyed on (from, action); stage ordinals are never
// compared because send-back moves backward.
type Rule struct {
	From   domain.Stage
	Action domain.Action
	To     domain.Stage

	// TranslationTo overrides To for translation items; translations skip
	// the approved stage and land directly in translated.
	TranslationTo domain.Stage

	// MinRole is the minimum tier for a non-author actor.
	MinRole domain.Role
	// AuthorMinRole, when set, is the minimum tier for the item's own
	// author. Submitting your own draft needs less rank than acting on
	// someone else's; skipping the reviewer tier on your own item needs
	// more.
	AuthorMinRole domain.Role

	// RequiresAssignee demands a named handoff target holding at least
	// AssigneeMinRole; the accepted assignee is written into AssigneeSlot.
	RequiresAssignee bool
	AssigneeMinRole  domain.Role
	AssigneeSlot     AssigneeSlot

	// Guarded routes the transition through the approval gate.
	Guarded bool
}

type ruleKey struct {
	from   domain.Stage
	action domain.Action
}

// Table is the data-driven transition table consulted once per request.
type Table struct {
	rules map[ruleKey]Rule
}

// NewTable builds a table from explicit rules; later rules replace earlier
// ones for the same (from, action) key.
func NewTable(rules []Rule) *Table {
	table := &Table{rules: make(map[ruleKey]Rule, len(rules))}
	for _, rule := range rules {
		table.rules[ruleKey{from: rule.From, action: rule.Action}] = rule
	}
	return table
}

// DefaultRules returns the newsroom editorial state machine.
func DefaultRules() []Rule {
	return []Rule{
		{
			From:             domain.StageDraft,
			Action:           domain.ActionSubmitForReview,
			To:               domain.StageNeedsReviewerReview,
			MinRole:          domain.RoleReviewer,
			AuthorMinRole:    domain.RoleJournalist,
			RequiresAssignee: true,
			AssigneeMinRole:  domain.RoleReviewer,
			AssigneeSlot:     AssigneeSlotReviewer,
		},
		{
			// Authors at or above the approver tier may skip the reviewer
			// tier on their own drafts.
			From:             domain.StageDraft,
			Action:           domain.ActionSendForApproval,
			To:               domain.StageNeedsApproverReview,
			MinRole:          domain.RoleReviewer,
			AuthorMinRole:    domain.RoleApprover,
			RequiresAssignee: true,
			AssigneeMinRole:  domain.RoleApprover,
			AssigneeSlot:     AssigneeSlotApprover,
		},
		{
			From:             domain.StageNeedsReviewerReview,
			Action:           domain.ActionSendForApproval,
			To:               domain.StageNeedsApproverReview,
			MinRole:          domain.RoleReviewer,
			RequiresAssignee: true,
			AssigneeMinRole:  domain.RoleApprover,
			AssigneeSlot:     AssigneeSlotApprover,
		},
		{
			From:    domain.StageNeedsReviewerReview,
			Action:  domain.ActionSendBack,
			To:      domain.StageDraft,
			MinRole: domain.RoleReviewer,
		},
		{
			From:          domain.StageNeedsApproverReview,
			Action:        domain.ActionApprove,
			To:            domain.StageApproved,
			TranslationTo: domain.StageTranslated,
			MinRole:       domain.RoleApprover,
			Guarded:       true,
		},
		{
			From:    domain.StageNeedsApproverReview,
			Action:  domain.ActionSendBack,
			To:      domain.StageDraft,
			MinRole: domain.RoleApprover,
		},
		{
			From:    domain.StageApproved,
			Action:  domain.ActionMarkTranslated,
			To:      domain.StageTranslated,
			MinRole: domain.RoleApprover,
			Guarded: true,
		},
		{
			From:    domain.StageApproved,
			Action:  domain.ActionSendBack,
			To:      domain.StageDraft,
			MinRole: domain.RoleApprover,
		},
		{
			From:    domain.StageTranslated,
			Action:  domain.ActionPublish,
			To:      domain.StagePublished,
			MinRole: domain.RoleApprover,
		},
		{
			From:    domain.StageTranslated,
			Action:  domain.ActionSendBack,
			To:      domain.StageDraft,
			MinRole: domain.RoleApprover,
		},
	}
}

// DefaultTable returns the table built from DefaultRules.
func DefaultTable() *Table {
	return NewTable(DefaultRules())
}

// Lookup finds the rule for (from, action).
func (t *Table) Lookup(from domain.Stage, action domain.Action) (Rule, bool) {
	rule, ok := t.rules[ruleKey{from: from, action: action}]
	return rule, ok
}

// OverrideMinRole raises or lowers the role threshold for one edge. Hosts
// use this to tighten who may publish without redefining the machine.
func (t *Table) OverrideMinRole(from domain.Stage, action domain.Action, minRole domain.Role) bool {
	key := ruleKey{from: from, action: action}
	rule, ok := t.rules[key]
	if !ok {
		return false
	}
	rule.MinRole = minRole
	t.rules[key] = rule
	return true
}

// ActionsFrom lists the actions with rules out of the supplied stage,
// filtered to those the actor's role could legally perform. Used for display
// only; the engine re-checks legality on execution.
func (t *Table) ActionsFrom(from domain.Stage, role domain.Role, isAuthor bool) []domain.Action {
	actions := make([]domain.Action, 0, 4)
	for key, rule := range t.rules {
		if key.from != from {
			continue
		}
		min := rule.MinRole
		if isAuthor && rule.AuthorMinRole != "" {
			min = rule.AuthorMinRole
		}
		if role.AtLeast(min) {
			actions = append(actions, key.action)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
