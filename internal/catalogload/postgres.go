package catalogload

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusforge/gradplan/internal/catalog"
	"github.com/campusforge/gradplan/internal/programmap"
)

// courseRow mirrors the persistent catalog table's columns:
// code, program, year_level, credit_hours, and the four
// DNF lists, each stored as a jsonb array-of-arrays column.
type courseRow struct {
	Code               string
	Program            string
	YearLevel          int
	CreditHours        float64
	PreRequisites      [][]string
	CoRequisites       [][]string
	CreditRestrictions [][]string
	PostRequisites     [][]string
}

// LoadFromPostgres reads the course catalog table for courseMap from a
// Postgres database. The program map
// itself (required courses, one-of groups, filter constraints) is not
// part of the scraper's output column set, so it is still sourced from
// the matching embedded fixture; only the course rows come from the
// database. The catalog scraper and its store live upstream; the core
// only consumes their output.
func LoadFromPostgres(ctx context.Context, pool *pgxpool.Pool, courseMap string) (*catalog.Store, *programmap.ProgramMap, error) {
	rows, err := pool.Query(ctx, `
		SELECT code, program, year_level, credit_hours,
		       pre_requisites, co_requisites, credit_restrictions, post_requisites
		FROM courses
		WHERE program = $1
	`, courseMap)
	if err != nil {
		return nil, nil, fmt.Errorf("catalogload: query courses: %w", err)
	}
	defer rows.Close()

	var courses []catalog.Course
	for rows.Next() {
		var r courseRow
		var pre, co, restr, post []byte
		if err := rows.Scan(&r.Code, &r.Program, &r.YearLevel, &r.CreditHours, &pre, &co, &restr, &post); err != nil {
			return nil, nil, fmt.Errorf("catalogload: scan course row: %w", err)
		}
		if err := unmarshalDNFColumns(pre, co, restr, post, &r); err != nil {
			return nil, nil, err
		}
		courses = append(courses, catalog.Course{
			Code:               r.Code,
			Program:            r.Program,
			YearLevel:          catalog.YearLevel(r.YearLevel),
			CreditHours:        r.CreditHours,
			PreRequisites:      toDNF(r.PreRequisites),
			CoRequisites:       toDNF(r.CoRequisites),
			PostRequisites:     toDNF(r.PostRequisites),
			CreditRestrictions: toDNF(r.CreditRestrictions),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("catalogload: iterate course rows: %w", err)
	}

	_, pm, err := LoadFixture(courseMap)
	if err != nil {
		return nil, nil, fmt.Errorf("catalogload: no program map for %q: %w", courseMap, err)
	}
	return catalog.NewStore(courses), pm, nil
}

func unmarshalDNFColumns(pre, co, restr, post []byte, r *courseRow) error {
	for _, col := range []struct {
		raw  []byte
		dest *[][]string
	}{
		{pre, &r.PreRequisites},
		{co, &r.CoRequisites},
		{restr, &r.CreditRestrictions},
		{post, &r.PostRequisites},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return fmt.Errorf("catalogload: unmarshal dnf column: %w", err)
		}
	}
	return nil
}
