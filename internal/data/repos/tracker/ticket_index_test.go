package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/tracker-backend/internal/data/aggregates/testutil"
	repotest "github.com/yungbote/tracker-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/pkg/dbctx"
)

var t0 = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

func TestTicketIndexRepo(t *testing.T) {
	db := repotest.DB(t)
	repo := NewTicketIndexRepo(db, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	seed := repotest.SeedProject(t, "PRJ-000001", t0)
	ticket, _ := seed.Project.Ticket(seed.Ticket)
	if err := repo.Upsert(dbc, ticket); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	row, err := repo.FindByID(dbc, seed.Ticket)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if row.Status != string(project.TicketNew) || row.ProjectID != seed.Project.ID().UUID {
		t.Fatalf("FindByID: unexpected row %+v", row)
	}
	ids, err := AssigneeIDs(row)
	if err != nil || len(ids) != 1 || ids[0] != seed.Developer.UUID {
		t.Fatalf("AssigneeIDs: ids=%v err=%v", ids, err)
	}

	mine, err := repo.FindByAssignee(dbc, seed.Developer)
	if err != nil {
		t.Fatalf("FindByAssignee: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != seed.Ticket.UUID {
		t.Fatalf("FindByAssignee: want the seeded ticket, got %d rows", len(mine))
	}
	if others, _ := repo.FindByAssignee(dbc, seed.Tester); len(others) != 0 {
		t.Fatalf("FindByAssignee tester: want none got=%d", len(others))
	}

	byProject, err := repo.FindByProject(dbc, seed.Project.ID())
	if err != nil || len(byProject) != 1 {
		t.Fatalf("FindByProject: rows=%d err=%v", len(byProject), err)
	}

	if _, err := repo.FindByID(dbc, project.NewTicketID()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("FindByID unknown: want not_found got=%v", err)
	}
}

func TestTicketIndexRepoKeepsNewestVersion(t *testing.T) {
	db := repotest.DB(t)
	repo := NewTicketIndexRepo(db, repotest.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	seed := repotest.SeedProject(t, "PRJ-000001", t0)
	stale, _ := seed.Project.Ticket(seed.Ticket)

	p, err := seed.Project.ApplyTicketAction(seed.Ticket, project.AcceptTicket{By: seed.Developer}, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	fresh, _ := p.Ticket(seed.Ticket)

	if err := repo.Upsert(dbc, fresh); err != nil {
		t.Fatalf("Upsert fresh: %v", err)
	}
	if err := repo.Upsert(dbc, stale); err != nil {
		t.Fatalf("Upsert stale: %v", err)
	}
	row, err := repo.FindByID(dbc, seed.Ticket)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if row.Status != string(project.TicketAccepted) {
		t.Fatalf("stale snapshot overwrote newer row: status=%s", row.Status)
	}
}

func TestTicketIndexRepoUsesCallerTx(t *testing.T) {
	db := repotest.DB(t)
	repo := NewTicketIndexRepo(db, repotest.Logger(t))
	tx := repotest.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	seed := repotest.SeedProject(t, "PRJ-000001", t0)
	ticket, _ := seed.Project.Ticket(seed.Ticket)
	if err := repo.Upsert(dbc, ticket); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.FindByID(dbc, seed.Ticket); err != nil {
		t.Fatalf("FindByID in tx: %v", err)
	}
}

func TestTicketIndexRepoBeginFailure(t *testing.T) {
	db := repotest.DB(t)
	runner := &testutil.InjectedTxRunner{FailBegin: errors.New("begin failed")}
	repo := NewTicketIndexRepoWithDeps(TicketIndexRepoDeps{DB: db, Runner: runner})
	dbc := dbctx.Context{Ctx: context.Background()}

	seed := repotest.SeedProject(t, "PRJ-000001", t0)
	ticket, _ := seed.Project.Ticket(seed.Ticket)
	err := repo.Upsert(dbc, ticket)
	if !domainagg.IsInvariant(err, "index.ticket.upsert") {
		t.Fatalf("Upsert: want index.ticket.upsert invariant got=%v", err)
	}
	if runner.BeginCalls != 1 {
		t.Fatalf("begin calls: want=1 got=%d", runner.BeginCalls)
	}
	if _, err := repo.FindByID(dbc, seed.Ticket); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("row written despite failed begin: %v", err)
	}
}
