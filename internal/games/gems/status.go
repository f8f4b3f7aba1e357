package gems

import "github.com/vovakirdan/tui-gems/internal/match3"

// Player-facing status lines.
const (
	msgWelcome    = "Swap adjacent gems to match 3 or more!"
	msgSelected   = "Pick a gem to swap with."
	msgDeselected = "Selection cleared."
	msgAdjacent   = "Only adjacent gems can be swapped."
	msgNoMatch    = "No match. Try another combination!"
	msgNice       = "Nice!"
	msgBigMatch   = "Great! 4+ connected!"
	msgChain      = "Chain reaction!"
	msgSettle     = "Look for another match."
	msgOutOfMoves = "Out of moves!"
	msgCopied     = "Board copied to clipboard."
	msgCopyFailed = "Clipboard unavailable."
	bigMatchCells = 4
)

// StatusFor returns the status line for a transition, or "" when the
// transition should not change the message.
func StatusFor(t match3.Transition) string {
	switch t.Outcome {
	case match3.OutcomeSelected:
		return msgSelected
	case match3.OutcomeDeselected:
		return msgDeselected
	case match3.OutcomeReselected, match3.OutcomeNotAdjacent:
		return msgAdjacent
	case match3.OutcomeSwapRejected:
		return msgNoMatch
	case match3.OutcomeSwapAccepted:
		if len(t.Steps) > 0 && len(t.Steps[0].Matched) >= bigMatchCells {
			return msgBigMatch
		}
		return msgNice
	default:
		return ""
	}
}

// stepStatus is shown when a cascade step's matches are highlighted.
// The swap's own match keeps the message set by StatusFor.
func stepStatus(step int) string {
	if step > 0 {
		return msgChain
	}
	return ""
}
