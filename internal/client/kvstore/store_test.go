package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

const itemsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {"name": {"type": "string"}, "count": {"type": "integer"}}
  }
}`

// failingBackend returns err from every operation.
type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBackend) Set(context.Context, string, []byte) error   { return f.err }
func (f failingBackend) Delete(context.Context, string) error        { return f.err }
func (f failingBackend) Close() error                                { return nil }

func newStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	b := NewMemoryBackend()
	return New(b, nil), b
}

func TestReadWrite_RoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	want := []item{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	require.NoError(t, s.Write(ctx, "items", want))

	got := Read(ctx, s, "items", []item{})
	assert.Equal(t, want, got)
	assert.Zero(t, s.Diagnostics().Malformed)
}

func TestRead_MissingKeyReturnsDefaultWithoutDiagnostics(t *testing.T) {
	s, _ := newStore(t)

	got := Read(context.Background(), s, "absent", []string{"default"})
	assert.Equal(t, []string{"default"}, got)
	assert.Zero(t, s.Diagnostics().Malformed)
}

func TestRead_NullPayloadIsAbsent(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "k", []byte(" null ")))

	got := Read(ctx, s, "k", []string{})
	assert.Equal(t, []string{}, got)
	assert.Zero(t, s.Diagnostics().Malformed)
}

func TestRead_CorruptPayloadReturnsDefaultAndCounts(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "items", []byte(`{ not json`)))

	got := Read(ctx, s, "items", []item{})
	assert.Empty(t, got)

	d := s.Diagnostics()
	assert.Equal(t, int64(1), d.Malformed)
	assert.Equal(t, "items", d.LastKey)
	assert.Contains(t, d.LastReason, ErrMalformed.Error())
}

func TestRead_WrongShapeReturnsDefault(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()
	require.NoError(t, b.Set(ctx, "items", []byte(`{"name":"not an array"}`)))

	got := Read(ctx, s, "items", []item{{Name: "fallback"}})
	assert.Equal(t, []item{{Name: "fallback"}}, got)
	assert.Equal(t, int64(1), s.Diagnostics().Malformed)
}

func TestRead_SchemaViolationReturnsDefault(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.RegisterSchema("items", itemsSchema))

	// decodes fine into []item, but the schema requires "name"
	require.NoError(t, b.Set(ctx, "items", []byte(`[{"count":3}]`)))

	got := Read(ctx, s, "items", []item{})
	assert.Empty(t, got)
	assert.Equal(t, int64(1), s.Diagnostics().Malformed)

	require.NoError(t, b.Set(ctx, "items", []byte(`[{"name":"ok","count":3}]`)))
	got = Read(ctx, s, "items", []item{})
	assert.Equal(t, []item{{Name: "ok", Count: 3}}, got)
	assert.Equal(t, int64(1), s.Diagnostics().Malformed)
}

func TestRead_SchemaChecksNumbersExactly(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.RegisterSchema("items", itemsSchema))

	require.NoError(t, b.Set(ctx, "items", []byte(`[{"name":"big","count":9007199254740993}]`)))
	got := Read(ctx, s, "items", []item{})
	assert.Equal(t, []item{{Name: "big", Count: 9007199254740993}}, got)
	assert.Zero(t, s.Diagnostics().Malformed)

	require.NoError(t, b.Set(ctx, "items", []byte(`[{"name":"half","count":1.5}]`)))
	got = Read(ctx, s, "items", []item{})
	assert.Empty(t, got)
	assert.Equal(t, int64(1), s.Diagnostics().Malformed)
}

const itemSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {"name": {"type": "string", "minLength": 1}}
}`

func TestReadList_DropsOnlyBadElements(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.RegisterItemSchema("items", itemSchema))

	require.NoError(t, b.Set(ctx, "items", []byte(`[
		{"name":"a","count":1},
		{"count":2},
		{"name":"c","count":"three"},
		{"name":"d","count":4}
	]`)))

	got := ReadList[item](ctx, s, "items")
	assert.Equal(t, []item{{Name: "a", Count: 1}, {Name: "d", Count: 4}}, got)

	d := s.Diagnostics()
	assert.Equal(t, int64(2), d.Malformed)
	assert.Equal(t, "items[2]", d.LastKey)
}

func TestReadList_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		want      []item
		malformed int64
	}{
		{name: "absent", payload: ""},
		{name: "null", payload: "null"},
		{name: "empty list", payload: "[]", want: []item{}},
		{name: "single object", payload: `{"name":"solo"}`, want: []item{{Name: "solo"}}},
		{name: "not a list", payload: `"text"`, malformed: 1},
		{name: "corrupt", payload: `[{"name":`, malformed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b := newStore(t)
			ctx := context.Background()
			require.NoError(t, s.RegisterItemSchema("items", itemSchema))
			if tt.payload != "" {
				require.NoError(t, b.Set(ctx, "items", []byte(tt.payload)))
			}

			got := ReadList[item](ctx, s, "items")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.malformed, s.Diagnostics().Malformed)
		})
	}
}

func TestRegisterSchema_InvalidSchema(t *testing.T) {
	s, _ := newStore(t)
	require.Error(t, s.RegisterSchema("k", `{ nope`))
	require.Error(t, s.RegisterSchema("k", `{"type": 12}`))
}

func TestRead_BackendErrorReturnsDefault(t *testing.T) {
	s := New(failingBackend{err: errors.New("disk gone")}, nil)

	got := Read(context.Background(), s, "k", 42)
	assert.Equal(t, 42, got)
	assert.Contains(t, s.Diagnostics().LastReason, "disk gone")
}

func TestWriteRemove_PropagateBackendErrors(t *testing.T) {
	s := New(failingBackend{err: errors.New("read-only")}, nil)
	ctx := context.Background()

	require.ErrorContains(t, s.Write(ctx, "k", 1), "read-only")
	require.ErrorContains(t, s.Remove(ctx, "k"), "read-only")
}

func TestRemove_IsIdempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "k", "v"))
	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"))
	assert.Equal(t, "def", Read(ctx, s, "k", "def"))
}

func TestWrite_UnencodableValue(t *testing.T) {
	s, _ := newStore(t)
	err := s.Write(context.Background(), "k", make(chan int))
	require.Error(t, err)
}
