package catalogload

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/programmap"
)

// entry pairs one course_map name's Store and ProgramMap, both
// immutable after Registry construction: loaded once, shared across
// solves.
type entry struct {
	store *catalog.Store
	pm    *programmap.ProgramMap
}

// Registry implements internal/httpapi.CatalogRegistry by resolving a
// course_map name against whatever set of catalogs was loaded at
// process start.
type Registry struct {
	entries map[string]entry
}

// NewRegistry loads every knownCourseMap: from pool when it is
// non-nil, otherwise from the embedded fixture. A Postgres load
// failure for one course map falls back to its fixture rather than
// failing the whole process, so a partially-seeded database never
// takes the service down.
func NewRegistry(ctx context.Context, pool *pgxpool.Pool, knownCourseMaps []string) (*Registry, error) {
	reg := &Registry{entries: make(map[string]entry, len(knownCourseMaps))}
	for _, name := range knownCourseMaps {
		var store *catalog.Store
		var pm *programmap.ProgramMap
		var err error

		if pool != nil {
			store, pm, err = LoadFromPostgres(ctx, pool, name)
		}
		if pool == nil || err != nil {
			store, pm, err = LoadFixture(name)
		}
		if err != nil {
			return nil, err
		}
		reg.entries[strings.ToLower(name)] = entry{store: store, pm: pm}
	}
	return reg, nil
}

// Lookup implements internal/httpapi.CatalogRegistry.
func (r *Registry) Lookup(courseMap string) (*catalog.Store, *programmap.ProgramMap, bool) {
	e, ok := r.entries[strings.ToLower(courseMap)]
	if !ok {
		return nil, nil, false
	}
	return e.store, e.pm, true
}
