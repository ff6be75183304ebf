package aggregates

import (
	"strings"

	"github.com/yungbote/tracker-backend/internal/domain/project"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type ProjectStore = Repository[project.ProjectID, *project.Project]

type UserStore = Repository[project.UserID, project.User]

// NewProjectStore keys projects by id with the project key as the secondary unique key.
func NewProjectStore(hooks Hooks, log *logger.Logger) *ProjectStore {
	return NewRepository(RepositoryConfig[project.ProjectID, *project.Project]{
		Name:           "project",
		Entity:         "Project",
		IDOf:           func(p *project.Project) project.ProjectID { return p.ID() },
		UniqueKeyOf:    func(p *project.Project) string { return p.Key().String() },
		UniqueKeyLabel: "Project key",
		SortKey:        func(p *project.Project) string { return strings.ToLower(p.Key().String()) },
		Hooks:          hooks,
		Log:            log,
	})
}

// NewUserStore keys users by id with the login as the secondary unique key.
func NewUserStore(hooks Hooks, log *logger.Logger) *UserStore {
	return NewRepository(RepositoryConfig[project.UserID, project.User]{
		Name:           "user",
		Entity:         "User",
		IDOf:           func(u project.User) project.UserID { return u.ID() },
		UniqueKeyOf:    func(u project.User) string { return u.Login() },
		UniqueKeyLabel: "Login",
		SortKey:        func(u project.User) string { return strings.ToLower(u.Login()) },
		Hooks:          hooks,
		Log:            log,
	})
}
