package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/jeanpaul/learnsimply/internal/types"
)

// NotesDiff renders a unified diff between two versions of a note. It returns
// "" when nothing changed.
func NotesDiff(title, before, after string) string {
	if before == after {
		return ""
	}
	if before != "" && !strings.HasSuffix(before, "\n") {
		before += "\n"
	}
	if after != "" && !strings.HasSuffix(after, "\n") {
		after += "\n"
	}
	edits := myers.ComputeEdits(span.URIFromPath(title), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(title+" (before)", title+" (after)", before, edits))
}

// ExportMarkdown renders a topic with its concepts, alphabetically, and notes.
func ExportMarkdown(t types.LearningTopic) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", t.Topic))
	if t.Date != "" {
		b.WriteString(fmt.Sprintf("_Last studied: %s_\n\n", t.Date))
	}

	titles := make([]string, 0, len(t.Concepts))
	for title := range t.Concepts {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	if len(titles) == 0 {
		b.WriteString("No concepts explored yet.\n")
		return b.String()
	}
	for _, title := range titles {
		b.WriteString(fmt.Sprintf("## %s\n\n", title))
		notes := strings.TrimSpace(t.Concepts[title].Notes)
		if notes == "" {
			notes = "_No notes._"
		}
		b.WriteString(notes + "\n\n")
	}
	return b.String()
}
