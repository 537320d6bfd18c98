package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/alramz/cxdash/apps/api/echo"
	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/complaint"
	"github.com/alramz/cxdash/core/dashboard"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/reservation"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
	appfs "github.com/alramz/cxdash/fs"
	"github.com/alramz/cxdash/services/email"
	"github.com/alramz/cxdash/storage/database/dummy"
	"github.com/alramz/cxdash/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	conf         *core.Config
	logger       *testutil.Logger
	usrRepo      user.Repository
	metricRepo   kpi.Repository
	surveyRepo   satisfaction.Repository
	recordRepo   analytics.Repository
	complaints   complaint.Repository
	reservations reservation.Repository
}

func setup(t *testing.T) *testApp {
	conf := core.NewTestConfig()
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(conf, appfs.FS, appfs.EmailTemplatesDir, logger)
	emailsvc.ResetSentMessages()

	// set up DB & repos
	db := dummydb.Open()
	app := &testApp{
		conf:         conf,
		logger:       logger,
		usrRepo:      dummydb.NewUserRepository(db),
		metricRepo:   dummydb.NewMetricRepository(db),
		surveyRepo:   dummydb.NewSurveyRepository(db),
		recordRepo:   dummydb.NewAnalyticsRepository(db),
		complaints:   dummydb.NewComplaintRepository(db),
		reservations: dummydb.NewReservationRepository(db),
	}

	// set up services
	c := testutil.NewCache(logger)
	validate, translator := testutil.NewValidator()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(conf, app.usrRepo, mailSvc)
	metricSvc := kpi.NewService(app.metricRepo, c)
	analyticsSvc := analytics.NewService(app.recordRepo, c)
	satisfactionSvc := satisfaction.NewService(app.surveyRepo, analyticsSvc, c, logger)

	// set up server
	app.Server = NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		UserSvc:         usrSvc,
		MetricSvc:       metricSvc,
		SatisfactionSvc: satisfactionSvc,
		AnalyticsSvc:    analyticsSvc,
		ComplaintSvc:    complaint.NewService(app.complaints),
		ReservationSvc:  reservation.NewService(app.reservations),
		DashboardSvc:    dashboard.NewService(metricSvc, satisfactionSvc, analyticsSvc, usrSvc, mailSvc),
	})
	t.Cleanup(func() { _ = app.Close() })
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
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

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, app *testApp, usr user.User) string {
	token, err := app.GenerateUserToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, "code; body %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

var testCtx = context.Background()
