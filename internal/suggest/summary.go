package suggest

import "fmt"

// Summary aggregates suggestions into counts and an overall grade.
type Summary struct {
	Total     int    `json:"total"`
	High      int    `json:"high"`
	Medium    int    `json:"medium"`
	Low       int    `json:"low"`
	Unmatched int    `json:"unmatched"`
	Grade     string `json:"grade"`
	Verdict   string `json:"verdict"`
}

// Grade maps a match percentage to a letter grade.
func Grade(matchPercentage float64) string {
	switch {
	case matchPercentage >= 99:
		return "A"
	case matchPercentage >= 95:
		return "B"
	case matchPercentage >= 90:
		return "C"
	case matchPercentage >= 80:
		return "D"
	default:
		return "F"
	}
}

// Summarize counts suggestions by priority and grades the comparison.
func Summarize(suggestions []Suggestion, matchPercentage float64) Summary {
	s := Summary{Total: len(suggestions), Grade: Grade(matchPercentage)}
	for _, sg := range suggestions {
		switch sg.Priority {
		case PriorityHigh:
			s.High++
		case PriorityMedium:
			s.Medium++
		default:
			s.Low++
		}
		if sg.NodeID == nil {
			s.Unmatched++
		}
	}

	switch {
	case s.Total == 0:
		s.Verdict = fmt.Sprintf("Pixel match %.2f%%, no regions to fix", matchPercentage)
	default:
		s.Verdict = fmt.Sprintf("Pixel match %.2f%% (grade %s): %d regions, %d high priority, %d unmatched",
			matchPercentage, s.Grade, s.Total, s.High, s.Unmatched)
	}
	return s
}
