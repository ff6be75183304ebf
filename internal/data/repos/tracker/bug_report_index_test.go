package tracker

import (
	"context"
	"testing"
	"time"

	repotest "github.com/yungbote/tracker-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/pkg/dbctx"
)

func TestBugReportIndexRepo(t *testing.T) {
	db := repotest.DB(t)
	repo := NewBugReportIndexRepo(db, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	seed := repotest.SeedProject(t, "PRJ-000001", t0)
	bug, _ := seed.Project.BugReport(seed.Bug)

	if err := repo.Insert(dbc, bug); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := repo.Insert(dbc, bug)
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("Insert duplicate: want conflict got=%v", err)
	}
	de, _ := domainagg.AsDomainError(err)
	if de.UserMessage() != "BugReport already exists: "+seed.Bug.String() {
		t.Fatalf("conflict message: %q", de.UserMessage())
	}

	toFix, err := repo.FindToFix(dbc, seed.Developer)
	if err != nil || len(toFix) != 1 {
		t.Fatalf("FindToFix: rows=%d err=%v", len(toFix), err)
	}
	if toFix[0].AssignedTo == nil || *toFix[0].AssignedTo != seed.Developer.UUID {
		t.Fatalf("FindToFix: assigned_to not stored")
	}

	p, err := seed.Project.ApplyBugReportAction(seed.Bug, project.FixBug{By: seed.Developer}, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	fixed, _ := p.BugReport(seed.Bug)
	if err := repo.Upsert(dbc, fixed); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if rows, _ := repo.FindToFix(dbc, seed.Developer); len(rows) != 0 {
		t.Fatalf("FindToFix after fix: want none got=%d", len(rows))
	}
	byStatus, err := repo.FindByStatus(dbc, project.BugFixed)
	if err != nil || len(byStatus) != 1 {
		t.Fatalf("FindByStatus FIXED: rows=%d err=%v", len(byStatus), err)
	}
	if byStatus[0].FixedBy == nil || *byStatus[0].FixedBy != seed.Developer.UUID {
		t.Fatalf("fixed_by not stored")
	}
	if rows, _ := repo.FindByAssignedTo(dbc, seed.Developer); len(rows) != 1 {
		t.Fatalf("FindByAssignedTo: want 1 got=%d", len(rows))
	}
	if rows, _ := repo.FindByProject(dbc, seed.Project.ID()); len(rows) != 1 {
		t.Fatalf("FindByProject: want 1 got=%d", len(rows))
	}

	deleted, err := repo.Delete(dbc, seed.Bug)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = repo.Delete(dbc, seed.Bug)
	if err != nil || deleted {
		t.Fatalf("Delete missing: deleted=%v err=%v", deleted, err)
	}
	if all, _ := repo.FindAll(dbc); len(all) != 0 {
		t.Fatalf("FindAll after delete: want none got=%d", len(all))
	}
	if _, err := repo.FindByID(dbc, seed.Bug); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("FindByID deleted: want not_found got=%v", err)
	}
}

func TestBugReportIndexRepoOrdersByID(t *testing.T) {
	db := repotest.DB(t)
	repo := NewBugReportIndexRepo(db, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	for i := 0; i < 5; i++ {
		seed := repotest.SeedProject(t, project.FormatProjectKey(int64(i+1)), t0)
		bug, _ := seed.Project.BugReport(seed.Bug)
		if err := repo.Upsert(dbc, bug); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	all, err := repo.FindAll(dbc)
	if err != nil || len(all) != 5 {
		t.Fatalf("FindAll: rows=%d err=%v", len(all), err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID.String() > all[i].ID.String() {
			t.Fatalf("FindAll not ordered by id at %d", i)
		}
	}
}
