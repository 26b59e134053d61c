package overlap

import (
	"fmt"
	"strconv"

	"github.com/mgoltzsche/vad-dataprep/internal/model"
)

// MatchPolicy selects which of several overlapping references determines the offset.
type MatchPolicy int

const (
	// FirstInIterationOrder picks the first overlapping reference as provided by the caller.
	// Results depend on the order of the reference slice.
	FirstInIterationOrder MatchPolicy = iota
	// EarliestStart picks the overlapping reference that starts first.
	EarliestStart
)

func (p MatchPolicy) String() string {
	switch p {
	case FirstInIterationOrder:
		return "first"
	case EarliestStart:
		return "earliest"
	default:
		return fmt.Sprintf("MatchPolicy(%d)", int(p))
	}
}

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch s {
	case "", "first":
		return FirstInIterationOrder, nil
	case "earliest":
		return EarliestStart, nil
	default:
		return FirstInIterationOrder, fmt.Errorf("unsupported match policy %q provided, supported are first, earliest", s)
	}
}

// CheckOverlap reports whether any reference overlaps the target, touching bounds included,
// and how many seconds after the target's start the first matching reference begins.
func CheckOverlap(target model.Interval, refs []model.Interval) model.OverlapResult {
	return CheckOverlapWithPolicy(target, refs, FirstInIterationOrder)
}

func CheckOverlapWithPolicy(target model.Interval, refs []model.Interval, policy MatchPolicy) model.OverlapResult {
	matched := -1

	for i, r := range refs {
		if !(r.End >= target.Start && r.Start <= target.End) {
			continue
		}

		if matched < 0 {
			matched = i
			if policy == FirstInIterationOrder {
				break
			}
			continue
		}

		if r.Start < refs[matched].Start {
			matched = i
		}
	}

	if matched < 0 {
		return model.OverlapResult{}
	}

	m := refs[matched]
	if target.Start >= m.Start {
		return model.OverlapResult{HasOverlap: true}
	}

	return model.OverlapResult{
		HasOverlap: true,
		Offset:     round(m.Start-target.Start, 2),
	}
}

// round rounds the exact binary value to the given decimals, sending exact ties to even.
func round(v float64, decimals int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	return f
}
