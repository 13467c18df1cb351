package domain

// Status is the coarse publication status retained for API compatibility
// with earlier newsroom deployments. It is fully derived from Stage; the
// engine never writes it independently.
type Status string

const (
	// StatusDraft indicates an item still moving through editorial review.
	StatusDraft Status = "draft"
	// StatusApproved identifies items cleared by an approver but not yet live.
	StatusApproved Status = "approved"
	// StatusPublished identifies items available to distributing stations.
	StatusPublished Status = "published"
)

// StatusFromStage projects the fine-grained workflow stage onto the legacy
// status field.
func StatusFromStage(stage Stage) Status {
	switch stage {
	case StageApproved, StageTranslated:
		return StatusApproved
	case StagePublished:
		return StatusPublished
	default:
		return StatusDraft
	}
}
