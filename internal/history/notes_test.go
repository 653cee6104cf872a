package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeanpaul/learnsimply/internal/types"
)

func TestNotesDiff(t *testing.T) {
	assert.Equal(t, "", NotesDiff("Inertia", "same", "same"))

	d := NotesDiff("Inertia", "line one\nline two", "line one\nline 2")
	assert.Contains(t, d, "-line two")
	assert.Contains(t, d, "+line 2")
	assert.Contains(t, d, "Inertia (after)")
}

func TestExportMarkdown(t *testing.T) {
	md := ExportMarkdown(types.LearningTopic{
		Topic: "Physics",
		Date:  "2024-05-01T09:00:00.000Z",
		Concepts: map[string]types.ConceptHistory{
			"Momentum": {Title: "Momentum"},
			"Inertia":  {Title: "Inertia", Notes: "objects resist change"},
		},
	})

	assert.Contains(t, md, "# Physics")
	assert.Contains(t, md, "objects resist change")
	assert.Contains(t, md, "_No notes._")
	assert.Less(t, strings.Index(md, "## Inertia"), strings.Index(md, "## Momentum"))
}

