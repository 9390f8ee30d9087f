package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformed tags persisted payloads that could not be used.
var ErrMalformed = errors.New("malformed local state")

// Diagnostics reports recoveries from malformed local state.
type Diagnostics struct {
	Malformed  int64
	LastKey    string
	LastReason string
}

type Store struct {
	backend Backend
	log     logging.Logger

	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
	diag    Diagnostics
}

func New(backend Backend, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		backend: backend,
		log:     log.With("component", "kvstore"),
		schemas: make(map[string]*jsonschema.Schema),
	}
}

// RegisterSchema compiles a JSON Schema that payloads under key must
// satisfy before they are decoded.
func (s *Store) RegisterSchema(key string, schema string) error {
	return s.register(key, schema)
}

// RegisterItemSchema compiles a JSON Schema that each element read by
// ReadList under key must satisfy.
func (s *Store) RegisterItemSchema(key string, schema string) error {
	return s.register(itemKey(key), schema)
}

func itemKey(key string) string { return key + ".item" }

func (s *Store) register(name string, schema string) error {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://blogkeeper.local/kv/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		return fmt.Errorf("schema load failed for %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("schema compile failed for %s: %w", name, err)
	}

	s.mu.Lock()
	s.schemas[name] = compiled
	s.mu.Unlock()
	return nil
}

// Read decodes the value stored under key into a T. It returns def when
// the key is absent or its payload is unusable.
func Read[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, ok := s.payload(ctx, key)
	if !ok {
		return def
	}

	if err := s.validate(key, raw); err != nil {
		s.recover(ctx, key, err)
		return def
	}

	var v T
	if err := sonic.Unmarshal(raw, &v); err != nil {
		s.recover(ctx, key, err)
		return def
	}
	return v
}

// ReadList decodes the array stored under key one element at a time.
// Elements that fail the item schema or do not decode into a T are dropped
// and counted as malformed; the rest are returned. A lone object is read as
// a one-element list.
func ReadList[T any](ctx context.Context, s *Store, key string) []T {
	raw, ok := s.payload(ctx, key)
	if !ok {
		return nil
	}

	var elems []json.RawMessage
	if raw[0] == '{' {
		elems = []json.RawMessage{raw}
	} else if err := sonic.Unmarshal(raw, &elems); err != nil {
		s.recover(ctx, key, err)
		return nil
	}

	out := make([]T, 0, len(elems))
	for i, e := range elems {
		at := fmt.Sprintf("%s[%d]", key, i)
		if err := s.validate(itemKey(key), e); err != nil {
			s.recover(ctx, at, err)
			continue
		}
		var v T
		if err := sonic.Unmarshal(e, &v); err != nil {
			s.recover(ctx, at, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// payload fetches the trimmed bytes under key. It reports false when the key
// is absent, null, or the backend fails.
func (s *Store) payload(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		s.recover(ctx, key, err)
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

// Write replaces the value under key.
func (s *Store) Write(ctx context.Context, key string, v any) error {
	b, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.backend.Set(ctx, key, b)
}

// Remove deletes key; removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

func (s *Store) Diagnostics() Diagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diag
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) validate(key string, raw []byte) error {
	s.mu.RLock()
	schema := s.schemas[key]
	s.mu.RUnlock()
	if schema == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

func (s *Store) recover(ctx context.Context, key string, cause error) {
	err := fmt.Errorf("%w: %v", ErrMalformed, cause)

	s.mu.Lock()
	s.diag.Malformed++
	s.diag.LastKey = key
	s.diag.LastReason = err.Error()
	s.mu.Unlock()

	s.log.Warn(ctx, "recovered from unusable local state", "key", key, "reason", err)
}
