package report

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders a human-readable summary of the report.
func WriteText(w io.Writer, r *DiffReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Compared %s image: %d/%d pixels differ (%.2f%% match, grade %s)\n",
		r.Dimensions, r.DiffPixels, r.TotalPixels, r.MatchPercentage, r.Summary.Grade)
	if r.AntiAliasedPixels > 0 {
		fmt.Fprintf(&b, "Anti-aliased pixels ignored: %d\n", r.AntiAliasedPixels)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(&b, "Warning [%s]: %s\n", warn.Code, warn.Message)
	}

	if len(r.Regions) == 0 {
		b.WriteString("\nNo differing regions.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "\n%d regions:\n", len(r.Regions))
	fmt.Fprintf(&b, "%-12s %-20s %8s %-20s %-10s\n", "ID", "Box (x,y wxh)", "Pixels", "Type", "Severity")
	b.WriteString(strings.Repeat("-", 74) + "\n")
	for _, reg := range r.Regions {
		box := fmt.Sprintf("%d,%d %dx%d", reg.PixelBounds.X, reg.PixelBounds.Y, reg.PixelBounds.Width, reg.PixelBounds.Height)
		fmt.Fprintf(&b, "%-12s %-20s %8d %-20s %-10s\n", reg.ID, box, reg.PixelCount, reg.Type, reg.Severity)
	}

	fmt.Fprintf(&b, "\nSuggestions (%d high, %d medium, %d low):\n", r.Summary.High, r.Summary.Medium, r.Summary.Low)
	for _, s := range r.Suggestions {
		target := "unmatched"
		if s.NodeID != nil {
			target = fmt.Sprintf("%s %q (%.0f%% confidence)", strings.ToLower(s.NodeType), s.NodeName, s.Confidence)
		}
		fmt.Fprintf(&b, "[%s] %s -> %s\n", strings.ToUpper(string(s.Priority)), s.RegionID, target)
		for _, fix := range s.Fixes {
			fmt.Fprintf(&b, "    - %s\n", fix)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", r.Summary.Verdict)
	_, err := io.WriteString(w, b.String())
	return err
}
