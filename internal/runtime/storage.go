package runtime

import (
	"fmt"
	"log/slog"
	"sync"
)

// Storage is the reference implementation of the control-flow IR's Storage
// contract (spec.md §4.7): the opaque owner of every table a compiled
// module declares (spec.md §5: "the sole owner of tables/indexes").
// Individual Tables and Indexes do their own locking; Storage's job is the
// named registry codegen's generated accessors use to find a table at
// startup, once, before any message handler runs.
type Storage struct {
	mu     sync.Mutex
	tables map[string]any
	log    *slog.Logger
}

// StorageOption configures a Storage at construction time.
type StorageOption func(*Storage)

// WithLogger overrides the default slog.Default() logger every Table
// constructed against this Storage inherits.
func WithLogger(log *slog.Logger) StorageOption {
	return func(s *Storage) { s.log = log }
}

// NewStorage constructs an empty Storage.
func NewStorage(opts ...StorageOption) *Storage {
	s := &Storage{tables: make(map[string]any), log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the Storage's configured logger.
func (s *Storage) Logger() *slog.Logger { return s.log }

// RegisterTable installs a freshly-constructed table under name for later
// lookup by GetTable, and returns it unchanged for convenient chaining at
// startup:
//
//	edges := runtime.RegisterTable(storage, "edge", runtime.NewTable[edgeKey, edgeVal]("edge", log))
//
// Panics on a duplicate name: registration happens once at process
// startup from generated code, never in response to untrusted input.
func RegisterTable[K comparable, V any](s *Storage, name string, t *Table[K, V]) *Table[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[name]; ok {
		panic(fmt.Sprintf("runtime: table %q already registered", name))
	}
	s.tables[name] = t
	return t
}

// GetTable looks up a previously-registered table by name and type. The
// second return is false if no table was registered under name, or if it
// was registered with different K/V types.
func GetTable[K comparable, V any](s *Storage, name string) (*Table[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	typed, ok := t.(*Table[K, V])
	return typed, ok
}
