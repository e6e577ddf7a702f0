package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/luct/apps/api/echo"
	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
	emailsvc "github.com/trezcool/luct/services/email"
	logsvc "github.com/trezcool/luct/services/logger"
	"github.com/trezcool/luct/storage/database"
	inmemdb "github.com/trezcool/luct/storage/database/inmem"
)

var (
	conf    *core.Config
	db      *inmemdb.DB
	repos   database.Repositories
	mailSvc *emailsvc.ConsoleService
	app     Server

	errMissingToken = Response{Message: "missing or malformed jwt"}
	errForbidden    = Response{Message: "Access denied. Insufficient permissions."}
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)

	// set up DB & repos
	db = inmemdb.Open()
	repos = database.Repositories{
		Users:   inmemdb.NewUserRepository(db),
		Catalog: inmemdb.NewCatalogRepository(db),
		Reports: inmemdb.NewReportRepository(db),
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	report.InitValidators(validate, translator)
	core.ParseEmailTemplates(logger)

	// set up services
	mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	usrSvc := user.NewService(repos.Users, validate, conf)

	// set up server
	app = NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			CatalogSvc: catalog.NewService(repos.Catalog),
			ReportSvc:  report.NewService(repos.Reports, repos.Catalog, repos.Users, mailSvc, validate, conf),
			Translator: translator,
		},
	)

	os.Exit(m.Run())
}

func resetDB() {
	db.Reset()
	mailSvc.Reset()
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

func getToken(t *testing.T, usr user.User) string {
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
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

// success wraps data in the success envelope.
func success(t *testing.T, message string, data interface{}) []byte {
	return marchallObj(t, Response{Success: true, Message: message, Data: data})
}

func getView(t *testing.T, id int) report.View {
	v, err := repos.Reports.GetReport(context.Background(), id)
	if err != nil {
		t.Fatalf("GetReport() failed: %v", err)
	}
	return v
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
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
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

func runHTTPTests(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
