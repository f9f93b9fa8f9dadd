package serviceImp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sheetchat/entities"
	"sheetchat/pkg/ai"
	"sheetchat/pkg/ingest"
)

type fakeRepo struct {
	docs map[string]*entities.Document
}

func (r *fakeRepo) Create(d *entities.Document) error { r.docs[d.ID] = d; return nil }

func (r *fakeRepo) List() ([]entities.Document, error) {
	out := make([]entities.Document, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeRepo) ByID(id string) (*entities.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeRepo) Delete(id string) error { delete(r.docs, id); return nil }

type fakeRAG struct {
	answer   string
	calls    int
	lastRows int
	lastMsg  string
	lastP    ai.Params
}

func (f *fakeRAG) Answer(_ context.Context, t *ingest.Table, question string, _ ai.Client, p ai.Params) string {
	f.calls++
	f.lastRows = len(t.Rows)
	f.lastMsg = question
	f.lastP = p
	return f.answer
}

func storedDoc(t *testing.T, id string, o *ai.Overrides) *entities.Document {
	t.Helper()
	doc := &entities.Document{ID: id, Name: "fruits.xlsx", EmbeddingModel: "nomic-embed-text"}
	table := &ingest.Table{
		Columns: []ingest.ColumnSpec{{Name: "Nama", Type: ingest.TypeText}},
		Rows:    []ingest.Row{{ingest.Text("Apel")}, {ingest.Text("Jeruk")}},
	}
	require.NoError(t, doc.SetTable(table))
	require.NoError(t, doc.SetOverrides(o))
	return doc
}

func newFixture(t *testing.T, o *ai.Overrides) (*Svc, *fakeRAG) {
	t.Helper()
	repo := &fakeRepo{docs: map[string]*entities.Document{}}
	require.NoError(t, repo.Create(storedDoc(t, "doc-1", o)))
	r := &fakeRAG{answer: "two fruits"}
	return New(repo, r, ai.Factory{}), r
}

func TestAsk_EmptyDocumentIDShortCircuits(t *testing.T) {
	svc, r := newFixture(t, nil)

	got, err := svc.Ask(context.Background(), "", "hello", "", nil)
	require.NoError(t, err)
	assert.Equal(t, SelectDocumentFirst, got)
	assert.Equal(t, 0, r.calls)
}

func TestAsk_UnknownDocumentShortCircuits(t *testing.T) {
	svc, r := newFixture(t, nil)

	got, err := svc.Ask(context.Background(), "missing", "hello", "", nil)
	require.NoError(t, err)
	assert.Equal(t, DocumentNotFound, got)
	assert.Equal(t, 0, r.calls)
}

func TestAsk_RunsCycleWithStoredRows(t *testing.T) {
	svc, r := newFixture(t, nil)

	got, err := svc.Ask(context.Background(), "doc-1", "how many fruits?", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "two fruits", got)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 2, r.lastRows)
	assert.Equal(t, "how many fruits?", r.lastMsg)
	assert.Equal(t, ai.Defaults(ai.FamilyLocal, "llama3.2"), r.lastP)
}

func TestAsk_SessionOverridesApplyWhenRequestHasNone(t *testing.T) {
	temp := 0.2
	svc, r := newFixture(t, &ai.Overrides{Temperature: &temp})

	_, err := svc.Ask(context.Background(), "doc-1", "q", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.2, r.lastP.Temperature)
}

func TestAsk_RequestOverridesBeatSessionOverrides(t *testing.T) {
	stored := 0.2
	svc, r := newFixture(t, &ai.Overrides{Temperature: &stored})

	asked := 0.9
	_, err := svc.Ask(context.Background(), "doc-1", "q", "", &ai.Overrides{Temperature: &asked})
	require.NoError(t, err)
	assert.Equal(t, 0.9, r.lastP.Temperature)
}

func TestAsk_FamilySwitchResetsParams(t *testing.T) {
	svc, r := newFixture(t, nil)

	_, err := svc.Ask(context.Background(), "doc-1", "q", "", &ai.Overrides{Type: "openai"})
	require.NoError(t, err)
	assert.Equal(t, ai.Defaults(ai.FamilyOpenAI, "gpt-3.5-turbo"), r.lastP)
}

func TestAsk_RepeatQuestionRunsIndependentCycles(t *testing.T) {
	svc, r := newFixture(t, nil)

	first, err := svc.Ask(context.Background(), "doc-1", "q", "", nil)
	require.NoError(t, err)
	second, err := svc.Ask(context.Background(), "doc-1", "q", "", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, r.calls)
}

func TestAsk_RepoFaultIsAnError(t *testing.T) {
	repo := &brokenRepo{}
	svc := New(repo, &fakeRAG{}, ai.Factory{})

	_, err := svc.Ask(context.Background(), "doc-1", "q", "", nil)
	require.Error(t, err)
}

type brokenRepo struct{}

func (brokenRepo) Create(*entities.Document) error { return errors.New("db down") }
func (brokenRepo) List() ([]entities.Document, error) {
	return nil, errors.New("db down")
}
func (brokenRepo) ByID(string) (*entities.Document, error) {
	return nil, errors.New("db down")
}
func (brokenRepo) Delete(string) error { return errors.New("db down") }
