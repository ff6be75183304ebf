package aggregates

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

// RepositoryConfig describes how a Repository identifies and indexes its values.
type RepositoryConfig[K comparable, V any] struct {
	// Name prefixes invariant names and hook operations ("project" -> "project.idImmutable").
	Name string
	// Entity is used in NotFound / Conflict messages ("Project").
	Entity string
	IDOf   func(V) K
	// UniqueKeyOf returns the secondary unique key; nil disables it.
	UniqueKeyOf func(V) string
	// UniqueKeyLabel prefixes duplicate-key conflicts ("Project key").
	UniqueKeyLabel string
	// SortKey orders FindAll results; ids are used when nil.
	SortKey func(V) string
	Hooks   Hooks
	Log     *logger.Logger
}

type entry[V any] struct {
	mu  sync.Mutex
	cur atomic.Pointer[V]
}

// Repository holds one committed snapshot per id.
//
// Update on one id is serialized by that id's mutex; different ids never
// contend. Reads load the committed pointer without locking.
type Repository[K comparable, V any] struct {
	cfg      RepositoryConfig[K, V]
	log      *logger.Logger
	insertMu sync.Mutex
	entries  sync.Map // K -> *entry[V]
	keys     sync.Map // string -> K
}

func NewRepository[K comparable, V any](cfg RepositoryConfig[K, V]) *Repository[K, V] {
	if cfg.Hooks == nil {
		cfg.Hooks = noopHooks{}
	}
	if strings.TrimSpace(cfg.Entity) == "" {
		cfg.Entity = cfg.Name
	}
	r := &Repository[K, V]{cfg: cfg}
	if cfg.Log != nil {
		r.log = cfg.Log.With("repo", cfg.Entity+"Repository")
	}
	return r
}

func (r *Repository[K, V]) op(name string) string { return r.cfg.Name + "." + name }

// Insert stores v when neither its id nor its unique key is taken.
func (r *Repository[K, V]) Insert(ctx context.Context, v V) (V, error) {
	var zero V
	if isZero(v) {
		return zero, domainagg.InvalidValue(r.cfg.Name, "must not be empty")
	}
	id := r.cfg.IDOf(v)
	err := executeWrite(ctx, r.cfg.Hooks, r.op("insert"), func(ctx context.Context) error {
		r.insertMu.Lock()
		defer r.insertMu.Unlock()

		if _, exists := r.entries.Load(id); exists {
			return domainagg.Conflict(fmt.Sprintf("%s already exists: %v", r.cfg.Entity, id))
		}
		var key string
		if r.cfg.UniqueKeyOf != nil {
			key = r.cfg.UniqueKeyOf(v)
			if _, taken := r.keys.Load(key); taken {
				return domainagg.Conflict(fmt.Sprintf("%s already exists: %s", r.cfg.UniqueKeyLabel, key))
			}
		}
		e := &entry[V]{}
		e.cur.Store(&v)
		if r.cfg.UniqueKeyOf != nil {
			r.keys.Store(key, id)
		}
		r.entries.Store(id, e)
		return nil
	})
	if err != nil {
		return zero, err
	}
	if r.log != nil {
		r.log.Debug("inserted", "id", fmt.Sprint(id))
	}
	return v, nil
}

func (r *Repository[K, V]) FindByID(id K) (V, bool) {
	raw, ok := r.entries.Load(id)
	if !ok {
		var zero V
		return zero, false
	}
	return *raw.(*entry[V]).cur.Load(), true
}

// Get is FindByID with a NotFound failure.
func (r *Repository[K, V]) Get(id K) (V, error) {
	v, ok := r.FindByID(id)
	if !ok {
		return v, domainagg.NotFound(r.cfg.Entity, id)
	}
	return v, nil
}

func (r *Repository[K, V]) FindByUniqueKey(key string) (V, bool) {
	raw, ok := r.keys.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return r.FindByID(raw.(K))
}

// FindAll returns committed snapshots matching keep (all when keep is nil).
func (r *Repository[K, V]) FindAll(keep func(V) bool) []V {
	out := []V{}
	r.entries.Range(func(_, raw any) bool {
		v := *raw.(*entry[V]).cur.Load()
		if keep == nil || keep(v) {
			out = append(out, v)
		}
		return true
	})
	sortKey := r.cfg.SortKey
	if sortKey == nil {
		sortKey = func(v V) string { return fmt.Sprint(r.cfg.IDOf(v)) }
	}
	sort.SliceStable(out, func(i, j int) bool { return sortKey(out[i]) < sortKey(out[j]) })
	return out
}

// Update applies updater to the current snapshot of id under that id's lock and
// commits the result only if the updater succeeds and identity is preserved.
// On any failure the stored snapshot is untouched.
func (r *Repository[K, V]) Update(ctx context.Context, id K, updater func(V) (V, error)) (V, error) {
	var committed V
	err := executeWrite(ctx, r.cfg.Hooks, r.op("update"), func(ctx context.Context) error {
		raw, ok := r.entries.Load(id)
		if !ok {
			return domainagg.NotFound(r.cfg.Entity, id)
		}
		e := raw.(*entry[V])

		e.mu.Lock()
		defer e.mu.Unlock()

		if err := ctx.Err(); err != nil {
			return err
		}
		current := *e.cur.Load()
		next, err := updater(current)
		if err != nil {
			return err
		}
		if isZero(next) {
			return domainagg.InvariantViolation("repo.update", "updater returned no result")
		}
		if r.cfg.IDOf(next) != id {
			return domainagg.InvariantViolation(r.op("idImmutable"), r.cfg.Name+" id cannot change")
		}
		if r.cfg.UniqueKeyOf != nil && r.cfg.UniqueKeyOf(next) != r.cfg.UniqueKeyOf(current) {
			return domainagg.InvariantViolation(r.op("keyImmutable"), r.cfg.Name+" key cannot change")
		}
		e.cur.Store(&next)
		committed = next
		return nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return committed, nil
}

// Len reports the number of stored values.
func (r *Repository[K, V]) Len() int {
	n := 0
	r.entries.Range(func(_, _ any) bool { n++; return true })
	return n
}

func isZero[V any](v V) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}
