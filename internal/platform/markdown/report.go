package markdown

import (
	"fmt"
	"strings"
)

// Section is one heading with a bullet list underneath.
type Section struct {
	Heading string
	Items   []string
	// Empty is printed in italics when Items is empty.
	Empty string
}

// RenderReport writes "# title", an optional lead paragraph and each section
// as "## heading" plus bullets.
func RenderReport(title, lead string, sections []Section) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	if strings.TrimSpace(lead) != "" {
		sb.WriteString(lead + "\n\n")
	}
	for _, s := range sections {
		sb.WriteString("## " + s.Heading + "\n\n")
		if len(s.Items) == 0 {
			empty := s.Empty
			if empty == "" {
				empty = "none"
			}
			sb.WriteString(fmt.Sprintf("_%s_\n\n", empty))
			continue
		}
		for _, item := range s.Items {
			sb.WriteString("- " + escapeBullet(item) + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func escapeBullet(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ")
	if s == "" {
		return "(blank)"
	}
	return s
}
