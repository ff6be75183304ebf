package tracker

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/tracker-backend/internal/data/aggregates"
	types "github.com/yungbote/tracker-backend/internal/domain"
	domainagg "github.com/yungbote/tracker-backend/internal/domain/aggregates"
	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/pkg/dbctx"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type TicketIndexRepo interface {
	NextID() project.TicketID
	Upsert(dbc dbctx.Context, tickets ...project.Ticket) error
	FindByID(dbc dbctx.Context, id project.TicketID) (*types.TicketIndexRow, error)
	FindByAssignee(dbc dbctx.Context, userID project.UserID) ([]*types.TicketIndexRow, error)
	FindByProject(dbc dbctx.Context, projectID project.ProjectID) ([]*types.TicketIndexRow, error)
}

type TicketIndexRepoDeps struct {
	DB     *gorm.DB
	Runner aggregates.TxRunner
	Log    *logger.Logger
}

type ticketIndexRepo struct {
	db     *gorm.DB
	runner aggregates.TxRunner
	log    *logger.Logger
}

func NewTicketIndexRepo(db *gorm.DB, baseLog *logger.Logger) TicketIndexRepo {
	return NewTicketIndexRepoWithDeps(TicketIndexRepoDeps{DB: db, Log: baseLog})
}

func NewTicketIndexRepoWithDeps(deps TicketIndexRepoDeps) TicketIndexRepo {
	runner := deps.Runner
	if runner == nil {
		runner = aggregates.NewGormTxRunner(deps.DB)
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &ticketIndexRepo{
		db:     deps.DB,
		runner: runner,
		log:    log.With("repo", "TicketIndexRepo"),
	}
}

func (r *ticketIndexRepo) NextID() project.TicketID { return project.NewTicketID() }

// Upsert writes the ticket rows and their assignee links in one transaction.
// A row whose stored version is newer than the incoming snapshot is left alone.
func (r *ticketIndexRepo) Upsert(dbc dbctx.Context, tickets ...project.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	write := func(tx *gorm.DB) error {
		for _, t := range tickets {
			row, links, err := ticketRowOf(t)
			if err != nil {
				return err
			}
			res := tx.WithContext(dbc.Ctx).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{"title", "status", "assignees", "version", "updated_at"}),
					Where: clause.Where{Exprs: []clause.Expression{
						clause.Expr{SQL: "ticket_index.version <= excluded.version"},
					}},
				}).
				Create(row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				r.log.Debug("stale ticket snapshot skipped", "ticket_id", row.ID, "version", row.Version)
				continue
			}
			if err := tx.WithContext(dbc.Ctx).
				Where("ticket_id = ?", row.ID).
				Delete(&types.TicketAssigneeIndexRow{}).Error; err != nil {
				return err
			}
			if len(links) > 0 {
				if err := tx.WithContext(dbc.Ctx).Create(&links).Error; err != nil {
					return err
				}
			}
		}
		return nil
	}

	var err error
	if dbc.Tx != nil {
		err = write(dbc.Tx)
	} else {
		err = r.runner.InTx(dbc.Ctx, func(inner dbctx.Context) error {
			tx := inner.Tx
			if tx == nil {
				tx = r.db
			}
			return write(tx)
		})
	}
	return aggregates.MapError("index.ticket.upsert", err)
}

func (r *ticketIndexRepo) FindByID(dbc dbctx.Context, id project.TicketID) (*types.TicketIndexRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.TicketIndexRow
	err := transaction.WithContext(dbc.Ctx).Where("id = ?", id.UUID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainagg.NotFound("Ticket", id)
	}
	if err != nil {
		return nil, aggregates.MapError("index.ticket.find", err)
	}
	return &row, nil
}

// FindByAssignee returns the user's tickets ordered by id.
func (r *ticketIndexRepo) FindByAssignee(dbc dbctx.Context, userID project.UserID) ([]*types.TicketIndexRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.TicketIndexRow{}
	if err := transaction.WithContext(dbc.Ctx).
		Joins("JOIN ticket_assignee_index ON ticket_assignee_index.ticket_id = ticket_index.id").
		Where("ticket_assignee_index.user_id = ?", userID.UUID).
		Order("ticket_index.id").
		Find(&out).Error; err != nil {
		return nil, aggregates.MapError("index.ticket.findByAssignee", err)
	}
	return out, nil
}

func (r *ticketIndexRepo) FindByProject(dbc dbctx.Context, projectID project.ProjectID) ([]*types.TicketIndexRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.TicketIndexRow{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("project_id = ?", projectID.UUID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, aggregates.MapError("index.ticket.findByProject", err)
	}
	return out, nil
}

func ticketRowOf(t project.Ticket) (*types.TicketIndexRow, []types.TicketAssigneeIndexRow, error) {
	assignees := t.Assignees()
	ids := make([]string, 0, len(assignees))
	links := make([]types.TicketAssigneeIndexRow, 0, len(assignees))
	for _, u := range assignees {
		ids = append(ids, u.String())
		links = append(links, types.TicketAssigneeIndexRow{
			TicketID:  t.ID().UUID,
			UserID:    u.UUID,
			ProjectID: t.ProjectID().UUID,
		})
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, nil, err
	}
	return &types.TicketIndexRow{
		ID:          t.ID().UUID,
		ProjectID:   t.ProjectID().UUID,
		MilestoneID: t.MilestoneID().UUID,
		Title:       t.Title().String(),
		Status:      string(t.Status()),
		CreatedBy:   t.CreatedBy().UUID,
		Assignees:   raw,
		Version:     t.UpdatedAt().UnixNano(),
		CreatedAt:   t.CreatedAt().UTC(),
		UpdatedAt:   t.UpdatedAt().UTC(),
	}, links, nil
}

// AssigneeIDs decodes the assignee list stored on a ticket row.
func AssigneeIDs(row *types.TicketIndexRow) ([]uuid.UUID, error) {
	if row == nil || len(row.Assignees) == 0 {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal(row.Assignees, &raw); err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
