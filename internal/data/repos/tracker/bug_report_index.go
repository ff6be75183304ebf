package tracker

import (
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

type BugReportIndexRepo interface {
	NextID() project.BugReportID
	Insert(dbc dbctx.Context, bug project.BugReport) error
	Upsert(dbc dbctx.Context, bugs ...project.BugReport) error
	FindByID(dbc dbctx.Context, id project.BugReportID) (*types.BugReportIndexRow, error)
	FindAll(dbc dbctx.Context) ([]*types.BugReportIndexRow, error)
	FindByProject(dbc dbctx.Context, projectID project.ProjectID) ([]*types.BugReportIndexRow, error)
	FindByStatus(dbc dbctx.Context, status project.BugStatus) ([]*types.BugReportIndexRow, error)
	FindByAssignedTo(dbc dbctx.Context, userID project.UserID) ([]*types.BugReportIndexRow, error)
	FindToFix(dbc dbctx.Context, userID project.UserID) ([]*types.BugReportIndexRow, error)
	Delete(dbc dbctx.Context, id project.BugReportID) (bool, error)
}

type BugReportIndexRepoDeps struct {
	DB     *gorm.DB
	Runner aggregates.TxRunner
	Log    *logger.Logger
}

type bugReportIndexRepo struct {
	db     *gorm.DB
	runner aggregates.TxRunner
	log    *logger.Logger
}

func NewBugReportIndexRepo(db *gorm.DB, baseLog *logger.Logger) BugReportIndexRepo {
	return NewBugReportIndexRepoWithDeps(BugReportIndexRepoDeps{DB: db, Log: baseLog})
}

func NewBugReportIndexRepoWithDeps(deps BugReportIndexRepoDeps) BugReportIndexRepo {
	runner := deps.Runner
	if runner == nil {
		runner = aggregates.NewGormTxRunner(deps.DB)
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &bugReportIndexRepo{
		db:     deps.DB,
		runner: runner,
		log:    log.With("repo", "BugReportIndexRepo"),
	}
}

func (r *bugReportIndexRepo) NextID() project.BugReportID { return project.NewBugReportID() }

func (r *bugReportIndexRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

// Insert fails with Conflict when the id is already indexed.
func (r *bugReportIndexRepo) Insert(dbc dbctx.Context, bug project.BugReport) error {
	row := bugRowOf(bug)
	err := r.tx(dbc).Create(row).Error
	mapped := aggregates.MapError("index.bug.insert", err)
	if domainagg.IsCode(mapped, domainagg.CodeConflict) {
		return domainagg.Conflict("BugReport already exists: " + bug.ID().String())
	}
	return mapped
}

func (r *bugReportIndexRepo) Upsert(dbc dbctx.Context, bugs ...project.BugReport) error {
	if len(bugs) == 0 {
		return nil
	}
	write := func(tx *gorm.DB) error {
		for _, b := range bugs {
			row := bugRowOf(b)
			res := tx.WithContext(dbc.Ctx).
				Clauses(clause.OnConflict{
					Columns: []clause.Column{{Name: "id"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"title", "status", "assigned_to", "fixed_by", "tested_by", "version", "updated_at",
					}),
					Where: clause.Where{Exprs: []clause.Expression{
						clause.Expr{SQL: "bug_report_index.version <= excluded.version"},
					}},
				}).
				Create(row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				r.log.Debug("stale bug report snapshot skipped", "bug_report_id", row.ID, "version", row.Version)
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
	return aggregates.MapError("index.bug.upsert", err)
}

func (r *bugReportIndexRepo) FindByID(dbc dbctx.Context, id project.BugReportID) (*types.BugReportIndexRow, error) {
	var row types.BugReportIndexRow
	err := r.tx(dbc).Where("id = ?", id.UUID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainagg.NotFound("BugReport", id)
	}
	if err != nil {
		return nil, aggregates.MapError("index.bug.find", err)
	}
	return &row, nil
}

func (r *bugReportIndexRepo) FindAll(dbc dbctx.Context) ([]*types.BugReportIndexRow, error) {
	return r.find("index.bug.findAll", r.tx(dbc))
}

func (r *bugReportIndexRepo) FindByProject(dbc dbctx.Context, projectID project.ProjectID) ([]*types.BugReportIndexRow, error) {
	return r.find("index.bug.findByProject", r.tx(dbc).Where("project_id = ?", projectID.UUID))
}

func (r *bugReportIndexRepo) FindByStatus(dbc dbctx.Context, status project.BugStatus) ([]*types.BugReportIndexRow, error) {
	return r.find("index.bug.findByStatus", r.tx(dbc).Where("status = ?", string(status)))
}

func (r *bugReportIndexRepo) FindByAssignedTo(dbc dbctx.Context, userID project.UserID) ([]*types.BugReportIndexRow, error) {
	return r.find("index.bug.findByAssignedTo", r.tx(dbc).Where("assigned_to = ?", userID.UUID))
}

// FindToFix returns NEW bug reports assigned to userID.
func (r *bugReportIndexRepo) FindToFix(dbc dbctx.Context, userID project.UserID) ([]*types.BugReportIndexRow, error) {
	q := r.tx(dbc).
		Where("status = ?", string(project.BugNew)).
		Where("assigned_to = ?", userID.UUID)
	return r.find("index.bug.findToFix", q)
}

func (r *bugReportIndexRepo) find(op string, q *gorm.DB) ([]*types.BugReportIndexRow, error) {
	out := []*types.BugReportIndexRow{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

// Delete reports whether a row was removed.
func (r *bugReportIndexRepo) Delete(dbc dbctx.Context, id project.BugReportID) (bool, error) {
	res := r.tx(dbc).Where("id = ?", id.UUID).Delete(&types.BugReportIndexRow{})
	if res.Error != nil {
		return false, aggregates.MapError("index.bug.delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func bugRowOf(b project.BugReport) *types.BugReportIndexRow {
	return &types.BugReportIndexRow{
		ID:         b.ID().UUID,
		ProjectID:  b.ProjectID().UUID,
		Title:      b.Title().String(),
		Status:     string(b.Status()),
		CreatedBy:  b.CreatedBy().UUID,
		AssignedTo: optionalID(b.AssignedTo()),
		FixedBy:    optionalID(b.FixedBy()),
		TestedBy:   optionalID(b.TestedBy()),
		Version:    b.UpdatedAt().UnixNano(),
		CreatedAt:  b.CreatedAt().UTC(),
		UpdatedAt:  b.UpdatedAt().UTC(),
	}
}

func optionalID(id project.UserID, ok bool) *uuid.UUID {
	if !ok {
		return nil
	}
	u := id.UUID
	return &u
}
