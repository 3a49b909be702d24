// Package timeline places a booking on the fixed list of progress milestones.
package timeline

import (
	"repair-tracker/internal/features/booking/domain"
)

// Milestones is the ordered list of statuses shown on the progress timeline.
var Milestones = []domain.BookingStatus{
	domain.StatusBookingConfirmed,
	domain.StatusMechanicAssigned,
	domain.StatusEnRoute,
	domain.StatusInProgress,
	domain.StatusCompleted,
}

// Branch selects how a booking's progress is displayed.
type Branch string

const (
	// BranchTimeline shows the milestone progress bar.
	BranchTimeline Branch = "timeline"
	// BranchCancelled shows the cancellation notice instead of a timeline.
	BranchCancelled Branch = "cancelled"
	// BranchRescheduleRequested shows the reschedule notice instead of a timeline.
	BranchRescheduleRequested Branch = "reschedule_requested"
)

// Progress is the timeline payload for progress-bar UIs.
type Progress struct {
	// StageIndex is the high-water milestone index, -1 when none applies.
	StageIndex int `json:"stage_index"`
	// Stages lists the milestone labels in order.
	Stages []domain.BookingStatus `json:"stages"`
	// Percent is the share of milestones reached, 0-100.
	Percent int `json:"percent"`
	// Branch tells the view which display to render.
	Branch Branch `json:"branch"`
	// Status is the booking's current status.
	Status domain.BookingStatus `json:"status"`
}

// MilestoneIndex returns the position of status in Milestones, or -1.
func MilestoneIndex(status domain.BookingStatus) int {
	for i, m := range Milestones {
		if m == status {
			return i
		}
	}
	return -1
}

// CurrentStageIndex returns the highest milestone index found among the
// current status and every history entry, or -1 if none match. History order
// does not matter, so skipped or out-of-order entries are tolerated.
func CurrentStageIndex(status domain.BookingStatus, history []domain.TimelineEntry) int {
	highest := MilestoneIndex(status)
	for _, entry := range history {
		if idx := MilestoneIndex(entry.Status); idx > highest {
			highest = idx
		}
	}
	return highest
}

// IsTrackable reports whether live position simulation makes sense for status.
func IsTrackable(status domain.BookingStatus) bool {
	return status == domain.StatusEnRoute || status == domain.StatusInProgress
}

// BranchFor returns the display branch for status.
func BranchFor(status domain.BookingStatus) Branch {
	switch status {
	case domain.StatusCancelled:
		return BranchCancelled
	case domain.StatusRescheduleRequested:
		return BranchRescheduleRequested
	default:
		return BranchTimeline
	}
}

// BuildProgress assembles the timeline payload for a booking.
func BuildProgress(status domain.BookingStatus, history []domain.TimelineEntry) Progress {
	stages := make([]domain.BookingStatus, len(Milestones))
	copy(stages, Milestones)

	p := Progress{
		StageIndex: -1,
		Stages:     stages,
		Branch:     BranchFor(status),
		Status:     status,
	}
	if p.Branch != BranchTimeline {
		return p
	}

	p.StageIndex = CurrentStageIndex(status, history)
	if p.StageIndex >= 0 {
		p.Percent = (p.StageIndex + 1) * 100 / len(Milestones)
	}
	return p
}
