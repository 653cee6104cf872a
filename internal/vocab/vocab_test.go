package vocab

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/learnsimply/internal/kv"
	"github.com/jeanpaul/learnsimply/internal/types"
)

func newTestService(t *testing.T) (*Service, kv.Store) {
	t.Helper()
	persistent := kv.NewMemoryStore()
	store := kv.NewAdapter(persistent, kv.NewMemoryStore(), kv.DefaultNamespace, nil)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return NewService(store, nil, WithClock(func() time.Time { return now })), persistent
}

func word(w, meaning string) types.VocabularyWord {
	return types.VocabularyWord{WordDefinition: types.WordDefinition{Word: w, Meaning: meaning}}
}

func TestAddWord_CaseInsensitiveReplace(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.AddWord(ctx, "u@x.com", word("Foo", "first")))
	require.NoError(t, svc.AddWord(ctx, "u@x.com", word("bar", "other")))
	require.NoError(t, svc.AddWord(ctx, "u@x.com", word("foo", "second")))

	words := svc.Vocabulary(ctx, "u@x.com")
	require.Len(t, words, 2)
	assert.Equal(t, "foo", words[0].Word)
	assert.Equal(t, "second", words[0].Meaning)
	assert.Equal(t, "bar", words[1].Word)
}

func TestAddWord_StampsDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.AddWord(ctx, "u@x.com", word("Foo", "x")))

	words := svc.Vocabulary(ctx, "u@x.com")
	assert.Equal(t, "2024-05-01T09:00:00.000Z", words[0].DateAdded)

	keep := word("Bar", "y")
	keep.DateAdded = "2020-01-01T00:00:00.000Z"
	require.NoError(t, svc.AddWord(ctx, "u@x.com", keep))
	assert.Equal(t, keep.DateAdded, svc.Vocabulary(ctx, "u@x.com")[0].DateAdded)
}

func TestAddDefinition(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	w, err := svc.AddDefinition(ctx, "u@x.com", types.WordDefinition{
		Word: "ephemeral", Pronunciation: "/ɪˈfɛm(ə)rəl/", Meaning: "lasting a short time",
		Examples: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, w.DateAdded)
	assert.Equal(t, []types.VocabularyWord{w}, svc.Vocabulary(ctx, "u@x.com"))
}

func TestVocabulary_Malformed(t *testing.T) {
	ctx := context.Background()
	svc, persistent := newTestService(t)
	require.NoError(t, persistent.Set(ctx, "learnsimply_vocab_u@x.com", []byte(`[{"word": 1}]`)))
	assert.Empty(t, svc.Vocabulary(ctx, "u@x.com"))
}

func TestExportXLSX(t *testing.T) {
	w := word("ephemeral", "lasting a short time")
	w.Examples = []string{"one", "two"}
	w.DateAdded = "2024-05-01T09:00:00.000Z"

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX([]types.VocabularyWord{w}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, "ephemeral", rows[1][0])
	assert.Equal(t, "one\ntwo", rows[1][3])
}
