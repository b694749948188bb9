package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/logger"
	"study-planner/internal/model"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

const testSecret = "test-secret"

var testNow = time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

type testApp struct {
	srv     Server
	session *session
	users   *service.UserService
	plans   *service.PlanService
	tpls    *service.TemplateService
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	reads, err := repository.NewReadStoreFromGorm(db)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	users := service.NewUserService(userRepo)
	plans := service.NewPlanService(planRepo, templateRepo, reads)
	tpls := service.NewTemplateService(templateRepo)

	opts := &Options{
		DisableReqLogs: true,
		SecretKey:      testSecret,
		SessionTTL:     time.Hour,
		Location:       time.UTC,
		Logger:         logger.NewDiscard(),
		UserSvc:        users,
		PlanSvc:        plans,
		ProgressSvc:    service.NewProgressService(taskRepo),
		CalendarSvc:    service.NewCalendarService(plans, reads),
		TemplateSvc:    tpls,
		Now:            func() time.Time { return testNow },
	}
	srv := NewServer(opts)
	return &testApp{
		srv:     srv,
		session: srv.(*server).session,
		users:   users,
		plans:   plans,
		tpls:    tpls,
	}
}

func (app *testApp) login(t *testing.T, name string) (*model.User, string) {
	t.Helper()

	usr, _, err := app.users.Login(context.Background(), service.LoginInput{Name: name})
	require.NoError(t, err)
	token, err := app.session.GenerateToken(usr)
	require.NoError(t, err)
	return usr, token
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

// do sends the request and decodes the JSON body into a generic map.
func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var data []byte
	if body != nil {
		data = marshalObj(t, body)
	}
	req, rec := newAuthRequest(method, path, token, data)
	app.srv.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}
