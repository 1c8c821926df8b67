package symbols

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Table is a hierarchical, thread-safe name→Entry mapping (spec §3
// SymbolTable, §4.B). Readers take the shared lock concurrently;
// writers take it exclusively, per spec §4.B/§5.
type Table struct {
	mu        sync.RWMutex
	id        string
	scopeType ScopeType
	parent    *Table
	store     map[string]*Entry

	// aliases maps an import alias to the table of the module it
	// refers to (spec §4.B "import mod as alias").
	aliases map[string]*Table

	depth int
}

// NewRoot creates the global/prelude scope (no parent).
func NewRoot() *Table {
	return &Table{
		id:        uuid.NewString(),
		scopeType: ScopeGlobal,
		store:     make(map[string]*Entry),
		aliases:   make(map[string]*Table),
	}
}

// EnterScope pushes a new child scope (spec §4.B "New scope on
// function body, block, match arm, for/if blocks, impl body").
func (t *Table) EnterScope(scopeType ScopeType) *Table {
	child := &Table{
		id:        uuid.NewString(),
		scopeType: scopeType,
		parent:    t,
		store:     make(map[string]*Entry),
		aliases:   make(map[string]*Table),
		depth:     t.depth + 1,
	}
	return child
}

// ExitScope returns this table's parent. The child table (and its
// local-only entries) becomes unreachable and is garbage collected by
// Go's runtime; ExitScope releases no descriptor references, so
// shared descriptors referenced by those entries are left as they are
// (spec §4.B "pops and destroys local-only entries but not shared
// descriptors").
func (t *Table) ExitScope() *Table {
	return t.parent
}

// ID returns this scope's stable identifier.
func (t *Table) ID() string { return t.id }

// ScopeType returns what kind of lexical construct this table backs.
func (t *Table) ScopeType() ScopeType { return t.scopeType }

// Depth returns the scope nesting depth (0 at the root), used for the
// "maximum scope depth" statistic (spec §5).
func (t *Table) Depth() int { return t.depth }

// Parent returns the enclosing scope, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// InsertSafe inserts an entry, failing if the name already exists *in
// this scope* (spec §4.B: "parent shadowing is allowed"). The caller
// is responsible for emitting a warning when shadowing a parent name
// and warnings are enabled.
func (t *Table) InsertSafe(entry *Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.store[entry.Name]; exists {
		return fmt.Errorf("duplicate symbol %q in scope", entry.Name)
	}
	t.store[entry.Name] = entry
	return nil
}

// ShadowsParent reports whether name is already bound in some
// ancestor scope (for the shadowing warning spec §4.B describes).
func (t *Table) ShadowsParent(name string) bool {
	if t.parent == nil {
		return false
	}
	_, ok := t.parent.LookupSafe(name)
	return ok
}

// LookupLocal consults only this table, never walking parents (spec
// §3 "lookup_local omits parent walk").
func (t *Table) LookupLocal(name string) (*Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.store[name]
	return e, ok
}

// LookupSafe walks this table then its ancestors until found or the
// root is exhausted (spec §3 "consults the local table, then parents
// until found or root").
func (t *Table) LookupSafe(name string) (*Entry, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if e, ok := cur.LookupLocal(name); ok {
			return e, true
		}
	}
	return nil, false
}

// Remove deletes a local entry from this table.
func (t *Table) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.store, name)
}

// Iterate visits local entries under a read lock, stopping early if
// callback returns false (spec §4.B, used by the diagnostics engine
// for edit-distance suggestions). Must not call back into Insert on
// this same table (spec §5 locking discipline).
func (t *Table) Iterate(callback func(*Entry) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.store {
		if !callback(e) {
			return
		}
	}
}

// ReachableNames returns every locally-and-ancestor-visible name,
// nearest scope first, for suggestion candidate pools.
func (t *Table) ReachableNames() []string {
	var names []string
	seen := make(map[string]bool)
	for cur := t; cur != nil; cur = cur.parent {
		cur.Iterate(func(e *Entry) bool {
			if !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
			return true
		})
	}
	return names
}

// --- statistics -------------------------------------------------------------

// Stats holds per-analyzer atomic counters (nodes analyzed, types
// checked, symbols resolved, current/maximum scope depth); error and
// warning counts are kept by diagnostics.Engine. Kept as a
// plain struct owned by one Analyzer, never process-wide (spec §9
// Design Notes: "do not make them process-wide").
type Stats struct {
	NodesAnalyzed  int64
	TypesChecked   int64
	SymbolsResolved int64
	CurrentDepth   int64
	MaxDepth       int64
}

func (s *Stats) IncNodesAnalyzed()  { atomic.AddInt64(&s.NodesAnalyzed, 1) }
func (s *Stats) IncTypesChecked()   { atomic.AddInt64(&s.TypesChecked, 1) }
func (s *Stats) IncSymbolsResolved() { atomic.AddInt64(&s.SymbolsResolved, 1) }

func (s *Stats) EnterDepth() {
	d := atomic.AddInt64(&s.CurrentDepth, 1)
	for {
		max := atomic.LoadInt64(&s.MaxDepth)
		if d <= max || atomic.CompareAndSwapInt64(&s.MaxDepth, max, d) {
			break
		}
	}
}

func (s *Stats) ExitDepth() { atomic.AddInt64(&s.CurrentDepth, -1) }
