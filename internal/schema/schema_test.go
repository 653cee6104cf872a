package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Roadmap(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(Roadmap, `[{"title":"Kinematics"},{"title":"Forces"}]`))

	err := v.Validate(Roadmap, `[{"name":"Kinematics"}]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	assert.Error(t, v.Validate(Roadmap, `[]`))
	assert.Error(t, v.Validate(Roadmap, `{"title":"x"}`))
}

func TestValidator_NotJSON(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Validate(Quote, `the quote is "learn"`))
}

func TestValidator_QuizAndDefinition(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(Quiz, `[{"questionText":"2+2?","options":["3","4"],"correctAnswer":"4"}]`))
	assert.Error(t, v.Validate(Quiz, `[{"questionText":"2+2?","options":"4","correctAnswer":"4"}]`))

	assert.NoError(t, v.Validate(Definition, `{"word":"a","pronunciation":"/a/","meaning":"m","examples":["x","y"]}`))
	assert.Error(t, v.Validate(Definition, `{"word":"a"}`))
}

func TestValidator_StringSchemaIsCached(t *testing.T) {
	v := NewValidator()
	s := `{"type":"object","required":["a"]}`
	assert.NoError(t, v.Validate(s, `{"a":1}`))
	assert.Error(t, v.Validate(s, `{}`))

	n := 0
	v.cache.Range(func(_, _ any) bool { n++; return true })
	assert.Equal(t, 1, n)
}

func TestValidator_BadSchema(t *testing.T) {
	v := NewValidator()
	err := v.Validate(`{"type": 12}`, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema definition")
}

func TestDumpErrors(t *testing.T) {
	assert.Equal(t, "a", dumpErrors([]string{"a"}))
	assert.Equal(t, "a\n- b\n- c\n... and 2 more", dumpErrors([]string{"a", "b", "c", "d", "e"}))
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```JSON{\"a\":1}```  ", `{"a":1}`},
		{"```markdown\n# Title\n\nBody\n```", "# Title\n\nBody"},
		{"```\n# Title\n```", "# Title"},
		{`{"a":1}`, `{"a":1}`},
		{"# Plain article", "# Plain article"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripCodeFence(tc.in), "input %q", tc.in)
	}
}

func TestForGemini(t *testing.T) {
	g := ForGemini(Quiz)
	assert.Equal(t, "ARRAY", g["type"])
	assert.NotContains(t, g, "$schema")

	items := g["items"].(Schema)
	assert.Equal(t, "OBJECT", items["type"])
	props := items["properties"].(Schema)
	assert.Equal(t, "STRING", props["questionText"].(Schema)["type"])
	assert.Equal(t, "ARRAY", props["options"].(Schema)["type"])
	assert.Equal(t, "STRING", props["options"].(Schema)["items"].(Schema)["type"])

	// the source schema is untouched
	assert.Equal(t, "array", Quiz["type"])
}
