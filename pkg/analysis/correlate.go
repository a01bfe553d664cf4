package analysis

import (
	"regexp"
	"strconv"

	"sage/pkg/common"
)

// The step list and the graph are generated independently by the model and
// share no guaranteed id convention. Correlation therefore runs an ordered
// list of heuristics, first success wins; adding or removing a heuristic
// is a single change to the strategy slice.

var digitRun = regexp.MustCompile(`\d+`)

type correlateStrategy func(nodeID string, steps []common.Step) (int, bool)

var correlateStrategies = []correlateStrategy{
	matchByUniqueNumber,
	matchByExactID,
	matchByPosition,
}

// CorrelateStep maps a graph node id back to the index of its step in an
// independently produced step list. It returns the 0-based index and true,
// or -1 and false when no heuristic matches — callers clear any highlight
// in that case. Malformed ids (no digits at all) are a handled case, not
// an error.
func CorrelateStep(nodeID string, steps []common.Step) (int, bool) {
	if nodeID == "" || len(steps) == 0 {
		return -1, false
	}
	for _, strategy := range correlateStrategies {
		if idx, ok := strategy(nodeID, steps); ok {
			return idx, true
		}
	}
	return -1, false
}

// matchByUniqueNumber compares the first digit run of the node id against
// the first digit run of every step id; it matches only when exactly one
// step carries the same numeric value.
func matchByUniqueNumber(nodeID string, steps []common.Step) (int, bool) {
	num, ok := firstNumber(nodeID)
	if !ok {
		return -1, false
	}

	found := -1
	for i, step := range steps {
		stepNum, ok := firstNumber(step.StepID)
		if !ok || stepNum != num {
			continue
		}
		if found >= 0 {
			return -1, false // ambiguous
		}
		found = i
	}
	if found < 0 {
		return -1, false
	}
	return found, true
}

func matchByExactID(nodeID string, steps []common.Step) (int, bool) {
	for i, step := range steps {
		if step.StepID == nodeID {
			return i, true
		}
	}
	return -1, false
}

// matchByPosition treats the node id's number as a 1-based index into the
// step list.
func matchByPosition(nodeID string, steps []common.Step) (int, bool) {
	num, ok := firstNumber(nodeID)
	if !ok {
		return -1, false
	}
	if num < 1 || num > len(steps) {
		return -1, false
	}
	return num - 1, true
}

func firstNumber(s string) (int, bool) {
	run := digitRun.FindString(s)
	if run == "" {
		return 0, false
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		// a digit run longer than an int; treat as no number
		return 0, false
	}
	return n, true
}
