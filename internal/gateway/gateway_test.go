package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/learnsimply/internal/provider"
	"github.com/jeanpaul/learnsimply/internal/schema"
)

type fakeGenerator struct {
	replies []string
	err     error
	calls   []provider.Request
}

func (f *fakeGenerator) Name() string      { return "fake" }
func (f *fakeGenerator) ModelName() string { return "fake-1" }

func (f *fakeGenerator) Generate(_ context.Context, req provider.Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func TestGenerateRoadmap(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"```json\n[{\"title\":\"Kinematics\"},{\"title\":\"Forces\"}]\n```"}}
	items, err := New(gen, nil).GenerateRoadmap(context.Background(), "Physics")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Kinematics", items[0].Title)

	require.Len(t, gen.calls, 1)
	call := gen.calls[0]
	assert.Contains(t, call.Prompt, `"Physics"`)
	assert.Equal(t, schema.Roadmap, call.Schema)
	require.NotNil(t, call.Temperature)
	assert.InDelta(t, 0.5, *call.Temperature, 1e-9)
}

func TestGenerateRoadmap_ShapeMismatch(t *testing.T) {
	for _, reply := range []string{
		`{"title":"not an array"}`,
		`[{"name":"Kinematics"}]`,
		`[{"title":"  "}]`,
		`sure! here is your roadmap`,
	} {
		_, err := New(&fakeGenerator{replies: []string{reply}}, nil).GenerateRoadmap(context.Background(), "Physics")
		assert.ErrorIs(t, err, ErrSchemaMismatch, reply)
		assert.ErrorIs(t, err, ErrGenerationFailed, reply)
	}
}

func TestTransportFailureIsNotRetried(t *testing.T) {
	cause := errors.New("connection refused")
	gen := &fakeGenerator{err: cause}
	_, err := New(gen, nil).MotivationalQuote(context.Background())

	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSchemaMismatch)
	assert.Len(t, gen.calls, 1)
}

func TestGenerateConceptDetail(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{
		"explanation": "Motion without forces.",
		"synopsis": "- **velocity**",
		"youtubeVideos": [{"title": "Intro", "videoId": "abc123"}],
		"resourceSearchQueries": ["kinematics basics"]
	}`}}
	d, err := New(gen, nil).GenerateConceptDetail(context.Background(), "Kinematics", "Physics")
	require.NoError(t, err)
	assert.Equal(t, "Motion without forces.", d.Explanation)
	assert.Equal(t, "abc123", d.YoutubeVideos[0].VideoID)
	assert.Equal(t, []string{"kinematics basics"}, d.ResourceSearchQueries)
	assert.Contains(t, gen.calls[0].Prompt, `"Kinematics" within the larger topic of "Physics"`)
}

func TestWordDefinition_NoTemperature(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"word":"ephemeral","pronunciation":"/ɪˈfɛm(ə)rəl/","meaning":"short-lived","examples":["a","b"]}`}}
	def, err := New(gen, nil).WordDefinition(context.Background(), "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "short-lived", def.Meaning)
	assert.Nil(t, gen.calls[0].Temperature)

	_, err = New(&fakeGenerator{replies: []string{`{"word":"x"}`}}, nil).WordDefinition(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestGenerateQuiz(t *testing.T) {
	good := `[{"questionText":"2+2?","options":["3","4","5","6"],"correctAnswer":"4"}]`
	quiz, err := New(&fakeGenerator{replies: []string{good}}, nil).GenerateQuiz(context.Background(), "Addition", "Math")
	require.NoError(t, err)
	require.Len(t, quiz, 1)
	assert.Equal(t, "4", quiz[0].CorrectAnswer)

	bad := map[string]string{
		"answer not an option":   `[{"questionText":"2+2?","options":["3","5"],"correctAnswer":"4"}]`,
		"answer differs in case": `[{"questionText":"Capital?","options":["paris","rome"],"correctAnswer":"Paris"}]`,
		"single option":          `[{"questionText":"2+2?","options":["4"],"correctAnswer":"4"}]`,
		"empty quiz":             `[]`,
		"blank question":         `[{"questionText":" ","options":["3","4"],"correctAnswer":"4"}]`,
		"empty answer option":    `[{"questionText":"2+2?","options":["","4"],"correctAnswer":""}]`,
		"blank wrong option":     `[{"questionText":"2+2?","options":["4","  "],"correctAnswer":"4"}]`,
	}
	for name, reply := range bad {
		_, err := New(&fakeGenerator{replies: []string{reply}}, nil).GenerateQuiz(context.Background(), "Addition", "Math")
		assert.ErrorIs(t, err, ErrSchemaMismatch, name)
	}
}

func TestGenerateArticle(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"```markdown\n# Photosynthesis\n\nPlants.\n```"}}
	a, err := New(gen, nil).GenerateArticle(context.Background(), "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "# Photosynthesis\n\nPlants.", a)
	assert.Nil(t, gen.calls[0].Schema)
	assert.True(t, strings.Contains(gen.calls[0].Prompt, `"photosynthesis"`))

	_, err = New(&fakeGenerator{replies: []string{"```\n```"}}, nil).GenerateArticle(context.Background(), "x")
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
