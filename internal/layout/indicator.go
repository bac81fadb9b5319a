package layout

import (
	"strings"

	"github.com/dashspectre/dashspectre/internal/models"
)

// State is the mutually-exclusive state-indicator glyph. The zero value is
// StateNone, so an indicator that was never derived renders nothing.
type State string

const (
	StateNone    State = ""
	StateLoading State = "loading"
	StateError   State = "error"
)

// Indicator is the single status glyph next to a panel title.
type Indicator struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// unknownErrorMessage stands in for errors with no message of their own.
const unknownErrorMessage = "Unknown error"

// IndicatorFor derives the indicator from a result set.
//
// Loading only shows when a fetch is in flight AND data is already present;
// the no-data-yet case is covered by a full-panel overlay elsewhere. Loading
// is checked before Error, so a refetch over stale data hides a concurrent
// error until it settles. Error aggregates every result's message into one
// newline-joined tooltip.
func IndicatorFor(results []models.QueryResult) Indicator {
	fetching := false
	hasData := false
	var errMessages []string

	for _, r := range results {
		if r.IsFetching {
			fetching = true
		}
		if r.Data != nil {
			hasData = true
		}
		if r.Error != nil {
			msg := strings.TrimSpace(r.Error.Message)
			if msg == "" {
				msg = unknownErrorMessage
			}
			errMessages = append(errMessages, msg)
		}
	}

	if fetching && hasData {
		return Indicator{State: StateLoading}
	}
	if len(errMessages) > 0 {
		return Indicator{State: StateError, Message: strings.Join(errMessages, "\n")}
	}
	return Indicator{State: StateNone}
}
