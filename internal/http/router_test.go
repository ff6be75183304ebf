package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/tracker-backend/internal/data/aggregates"
	"github.com/yungbote/tracker-backend/internal/data/repos/testutil"
	"github.com/yungbote/tracker-backend/internal/data/repos/tracker"
	httpH "github.com/yungbote/tracker-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tracker-backend/internal/http/middleware"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/services"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics(observability.MetricsConfig{})
	hooks := aggregates.NewObservabilityHooks(metrics)
	svc := services.NewProjectService(services.ProjectServiceDeps{
		Projects: aggregates.NewProjectStore(hooks, log),
		Users:    aggregates.NewUserStore(hooks, log),
		Tickets:  tracker.NewTicketIndexRepo(db, log),
		Bugs:     tracker.NewBugReportIndexRepo(db, log),
		Metrics:  metrics,
		Log:      log,
	})
	engine := NewRouter(RouterConfig{
		Log:              log,
		Metrics:          metrics,
		UserHandler:      httpH.NewUserHandler(svc),
		ProjectHandler:   httpH.NewProjectHandler(svc),
		MilestoneHandler: httpH.NewMilestoneHandler(svc),
		TicketHandler:    httpH.NewTicketHandler(svc),
		BugHandler:       httpH.NewBugHandler(svc),
		MeHandler:        httpH.NewMeHandler(svc),
		HealthHandler:    httpH.NewHealthHandler(nil),
	})
	return &apiClient{t: t, engine: engine}
}

// do sends body as JSON and decodes the response into a generic map or list.
func (a *apiClient) do(method, path, actor string, body any, wantStatus int) map[string]any {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(httpMW.HeaderActorID, actor)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	require.Equal(a.t, wantStatus, rec.Code, "%s %s: %s", method, path, rec.Body.String())

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return out
}

func (a *apiClient) list(path, actor string) []any {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(httpMW.HeaderActorID, actor)
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var out []any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestRouterTicketFlow(t *testing.T) {
	api := newAPI(t)
	m := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "m", "display_name": "Manager"}, http.StatusCreated)["id"].(string)
	d := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "d", "display_name": "Dev"}, http.StatusCreated)["id"].(string)
	q := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "q", "display_name": "QA"}, http.StatusCreated)["id"].(string)

	p := api.do(http.MethodPost, "/api/projects", m, map[string]string{"name": "Tracker"}, http.StatusCreated)
	require.Equal(t, "PRJ-000001", p["key"])
	require.Equal(t, "MANAGER", p["my_role"])
	base := "/api/projects/" + p["id"].(string)

	api.do(http.MethodPost, base+"/developers", m, map[string]string{"user_id": d}, http.StatusOK)
	api.do(http.MethodPost, base+"/testers", m, map[string]string{"user_id": q}, http.StatusOK)

	denied := api.do(http.MethodPost, base+"/milestones", q, map[string]string{"name": "S1", "start": "2025-01-01", "end": "2025-01-14"}, http.StatusForbidden)
	require.Equal(t, "access_denied", errorCode(denied))

	bad := api.do(http.MethodPost, base+"/milestones", m, map[string]string{"name": "S1", "start": "2025-01-14", "end": "2025-01-01"}, http.StatusBadRequest)
	require.Equal(t, "invalid_value", errorCode(bad))

	ms := api.do(http.MethodPost, base+"/milestones", m, map[string]string{"name": "S1", "start": "2025-01-01", "end": "2025-01-14"}, http.StatusCreated)
	msPath := base + "/milestones/" + ms["id"].(string)
	require.Equal(t, "ACTIVE", api.do(http.MethodPost, msPath+"/activate", m, nil, http.StatusOK)["status"])

	tk := api.do(http.MethodPost, base+"/tickets", m, map[string]string{"milestone_id": ms["id"].(string), "title": "Login form"}, http.StatusCreated)
	tkPath := base + "/tickets/" + tk["id"].(string)
	api.do(http.MethodPost, tkPath+"/assignees", m, map[string]string{"user_id": d}, http.StatusOK)

	skip := api.do(http.MethodPost, tkPath+"/complete", d, nil, http.StatusConflict)
	require.Equal(t, "invalid_transition", errorCode(skip))

	open := api.do(http.MethodPost, msPath+"/close", m, nil, http.StatusUnprocessableEntity)
	require.Equal(t, "invariant_violation", errorCode(open))

	for _, step := range []string{"accept", "start", "complete"} {
		api.do(http.MethodPost, tkPath+"/"+step, d, nil, http.StatusOK)
	}
	require.Equal(t, true, api.do(http.MethodGet, tkPath+"/completion", m, nil, http.StatusOK)["done"])
	require.Equal(t, "CLOSED", api.do(http.MethodPost, msPath+"/close", m, nil, http.StatusOK)["status"])

	require.Len(t, api.list("/api/me/tickets", d), 1)
	require.Len(t, api.list("/api/projects", d), 1)

	dash := api.do(http.MethodGet, "/api/me/dashboard", d, nil, http.StatusOK)
	require.Len(t, dash["projects"], 1)
	require.Len(t, dash["tickets"], 1)
}

func TestRouterBugFlow(t *testing.T) {
	api := newAPI(t)
	m := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "m", "display_name": "Manager"}, http.StatusCreated)["id"].(string)
	d := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "d", "display_name": "Dev"}, http.StatusCreated)["id"].(string)
	q := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "q", "display_name": "QA"}, http.StatusCreated)["id"].(string)
	base := "/api/projects/" + api.do(http.MethodPost, "/api/projects", m, map[string]string{"name": "Bugs"}, http.StatusCreated)["id"].(string)
	api.do(http.MethodPost, base+"/developers", m, map[string]string{"user_id": d}, http.StatusOK)
	api.do(http.MethodPost, base+"/testers", m, map[string]string{"user_id": q}, http.StatusOK)

	bug := api.do(http.MethodPost, base+"/bugs", q, map[string]string{"title": "Crash"}, http.StatusCreated)
	bugPath := base + "/bugs/" + bug["id"].(string)
	api.do(http.MethodPost, bugPath+"/assignee", m, map[string]string{"user_id": d}, http.StatusOK)
	require.Len(t, api.list("/api/me/bugs-to-fix", d), 1)

	require.Equal(t, "FIXED", api.do(http.MethodPost, bugPath+"/fix", d, nil, http.StatusOK)["status"])
	require.Len(t, api.list("/api/me/actionable-bugs", q), 1)
	require.Equal(t, "TESTED", api.do(http.MethodPost, bugPath+"/test", q, nil, http.StatusOK)["status"])
	require.Equal(t, "CLOSED", api.do(http.MethodPost, bugPath+"/close", q, nil, http.StatusOK)["status"])
	require.Empty(t, api.list("/api/me/actionable-bugs", q))
}

func TestRouterRejectsBadRequests(t *testing.T) {
	api := newAPI(t)
	m := api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "m", "display_name": "Manager"}, http.StatusCreated)["id"].(string)

	require.Equal(t, "missing_actor", errorCode(api.do(http.MethodGet, "/api/projects", "", nil, http.StatusUnauthorized)))
	require.Equal(t, "invalid_value", errorCode(api.do(http.MethodGet, "/api/projects/not-a-uuid", m, nil, http.StatusBadRequest)))
	require.Equal(t, "not_found", errorCode(api.do(http.MethodGet, "/api/projects/"+m, m, nil, http.StatusNotFound)))
	require.Equal(t, "conflict", errorCode(api.do(http.MethodPost, "/api/users", "", map[string]string{"login": "m", "display_name": "Again"}, http.StatusConflict)))
	require.Equal(t, "not_found", errorCode(api.do(http.MethodGet, "/api/me/dashboard", "3f1c2d8e-0000-4000-8000-000000000001", nil, http.StatusNotFound)))
}

func TestRouterHealthAndMetrics(t *testing.T) {
	api := newAPI(t)
	api.do(http.MethodGet, "/healthcheck", "", nil, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `tracker_api_requests_total{method="GET",route="/healthcheck",status="200"} 1`)
}
