// Package layout decides which panel actions render inline and which
// collapse into an overflow menu at the current panel width.
package layout

import (
	"strings"

	"github.com/dashspectre/dashspectre/internal/models"
)

// Action identifies one panel action affordance.
type Action string

const (
	ActionDescription    Action = "description"
	ActionLinks          Action = "links"
	ActionStateIndicator Action = "stateIndicator"
	ActionExtra          Action = "extra"
	ActionRead           Action = "read"
	ActionEdit           Action = "edit"
	ActionExport         Action = "export"
	ActionMove           Action = "move"
)

// actionOrder is the fixed display priority; export sits adjacent to edit.
var actionOrder = []Action{
	ActionDescription,
	ActionLinks,
	ActionStateIndicator,
	ActionExtra,
	ActionRead,
	ActionEdit,
	ActionExport,
	ActionMove,
}

// Bucket is one of the three content-width regimes.
type Bucket string

const (
	BucketSmall  Bucket = "small"
	BucketMedium Bucket = "medium"
	BucketLarge  Bucket = "large"
)

// Width thresholds separating the buckets, in pixels of panel content width.
const (
	SmallMaxWidth  = 240
	MediumMaxWidth = 480
)

// BucketFor returns the bucket a content width falls into. Exactly one
// bucket is active for any width.
func BucketFor(width int) Bucket {
	switch {
	case width < SmallMaxWidth:
		return BucketSmall
	case width < MediumMaxWidth:
		return BucketMedium
	default:
		return BucketLarge
	}
}

// ActionSet captures which actions the caller can produce for a panel.
type ActionSet struct {
	Description     string
	Links           []models.Link
	Indicator       Indicator
	HasExtra        bool
	HasReadHandlers bool
	IsPanelViewed   bool
	HasEditHandlers bool
	Exportable      bool
}

// Producible returns the present actions in fixed priority order.
// Description requires non-blank text, links a non-empty list, read and edit
// their handler bundles, export an exportable classification, and move both
// edit handlers and a panel that is not currently viewed.
func (s ActionSet) Producible() []Action {
	var out []Action
	for _, a := range actionOrder {
		if s.producible(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) producible(a Action) bool {
	switch a {
	case ActionDescription:
		return strings.TrimSpace(s.Description) != ""
	case ActionLinks:
		return len(s.Links) > 0
	case ActionStateIndicator:
		return s.Indicator.State != StateNone
	case ActionExtra:
		return s.HasExtra
	case ActionRead:
		return s.HasReadHandlers
	case ActionEdit:
		return s.HasEditHandlers
	case ActionExport:
		return s.Exportable
	case ActionMove:
		return s.HasEditHandlers && !s.IsPanelViewed
	default:
		return false
	}
}

// HoverOnly reports whether affordances other than the state indicator and
// read action are only revealed on hover. That is the resting view mode:
// no edit handlers and not viewing a single panel fullscreen.
func (s ActionSet) HoverOnly() bool {
	return !s.HasEditHandlers && !s.IsPanelViewed
}

// Plan is a rendering decision for one width bucket. The overflow menu only
// renders when it would contain at least one action; an empty overflow is a
// dead click target and must not appear.
type Plan struct {
	Bucket       Bucket   `json:"bucket"`
	Inline       []Action `json:"inline"`
	Overflow     []Action `json:"overflow"`
	ShowOverflow bool     `json:"show_overflow"`
	HoverOnly    []Action `json:"hover_only,omitempty"`
}

// Compute splits the producible actions between inline display and the
// overflow menu for the bucket matching width.
//
// Small keeps only the move handle inline. Medium keeps everything inline
// except edit actions and export. Large collapses nothing.
func Compute(s ActionSet, width int) Plan {
	bucket := BucketFor(width)
	plan := Plan{Bucket: bucket}

	for _, a := range s.Producible() {
		if inlineIn(bucket, a) {
			plan.Inline = append(plan.Inline, a)
		} else {
			plan.Overflow = append(plan.Overflow, a)
		}
	}
	plan.ShowOverflow = len(plan.Overflow) > 0

	if s.HoverOnly() {
		for _, a := range plan.Inline {
			if a != ActionStateIndicator && a != ActionRead {
				plan.HoverOnly = append(plan.HoverOnly, a)
			}
		}
	}
	return plan
}

func inlineIn(bucket Bucket, a Action) bool {
	switch bucket {
	case BucketSmall:
		return a == ActionMove
	case BucketMedium:
		return a != ActionEdit && a != ActionExport
	default:
		return true
	}
}
