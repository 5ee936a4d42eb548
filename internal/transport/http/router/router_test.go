package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hamdansalifupolibu/hondandaawa/internal/audit"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/auth"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/cache"
	"github.com/hamdansalifupolibu/hondandaawa/internal/core/database"
	"github.com/hamdansalifupolibu/hondandaawa/internal/domain"
	"github.com/hamdansalifupolibu/hondandaawa/internal/policy"
	"github.com/hamdansalifupolibu/hondandaawa/internal/repo"
	"github.com/hamdansalifupolibu/hondandaawa/pkg/utils"
)

func init() { gin.SetMode(gin.TestMode) }

type testEnv struct {
	r   *gin.Engine
	db  *gorm.DB
	jwt *auth.JWTer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.All()...))

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	log := zap.NewNop()
	r := NewAPIEngine(Deps{
		Log:       log,
		DB:        db,
		JWT:       jwter,
		Cache:     cache.New(cache.NewMemoryStore()),
		Audit:     audit.NewRecorder(repo.NewAuditRepo(db), log),
		UploadDir: t.TempDir(),
	})
	return &testEnv{r: r, db: db, jwt: jwter}
}

// seedUser writes an account directly so tests don't burn the auth rate budget.
func (e *testEnv) seedUser(t *testing.T, username, role, status string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		PasswordHash: utils.HashPassword("passw0rd!"),
		Role:         role,
		Status:       status,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) tokenFor(t *testing.T, u *domain.User) string {
	t.Helper()
	tok, err := e.jwt.Issue(u.ID, u.Username, u.Role)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doForm(method, path, token string, fields map[string]string, fileField, fileName string, file []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileField != "" {
		fw, _ := mw.CreateFormFile(fileField, fileName)
		_, _ = fw.Write(file)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), "body: %s", w.Body.String())
	return m
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.doJSON(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestUnknownAPIRoute(t *testing.T) {
	e := newTestEnv(t)
	w := e.doJSON(http.MethodGet, "/api/does-not-exist", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "API endpoint not found. Check route URL.", decode(t, w)["error"])
}

func TestRegisterAndLoginFlow(t *testing.T) {
	e := newTestEnv(t)

	w := e.doJSON(http.MethodPost, "/api/register", "", gin.H{
		"username": "kofi", "password": "passw0rd!", "role": policy.RoleEditor,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["message"], "wait for admin approval")

	// Pending accounts can't log in yet.
	w = e.doJSON(http.MethodPost, "/api/login", "", gin.H{"username": "kofi", "password": "passw0rd!"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Account is pending approval or blocked.", decode(t, w)["error"])

	require.NoError(t, e.db.Model(&domain.User{}).Where("username = ?", "kofi").
		Update("status", domain.StatusApproved).Error)

	w = e.doJSON(http.MethodPost, "/api/login", "", gin.H{"username": "kofi", "password": "passw0rd!"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, policy.RoleEditor, body["role"])
	assert.Equal(t, "kofi", body["username"])
	require.NotEmpty(t, body["token"])

	// And the token actually opens a protected route.
	w = e.doForm(http.MethodPost, "/api/projects", body["token"].(string),
		map[string]string{"name": "Borehole", "sector": "water"}, "", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	e := newTestEnv(t)

	w := e.doJSON(http.MethodPost, "/api/register", "", gin.H{"username": "a", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password does not meet complexity requirements.", decode(t, w)["error"])

	w = e.doJSON(http.MethodPost, "/api/register", "", gin.H{"username": "ama", "password": "passw0rd!"})
	require.Equal(t, http.StatusOK, w.Code)
	w = e.doJSON(http.MethodPost, "/api/register", "", gin.H{"username": "ama", "password": "passw0rd!"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", decode(t, w)["error"])
}

func TestRegisterUnknownRoleBecomesViewer(t *testing.T) {
	e := newTestEnv(t)

	w := e.doJSON(http.MethodPost, "/api/register", "", gin.H{
		"username": "viewer1", "password": "passw0rd!", "role": "chief_hacker",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var u domain.User
	require.NoError(t, e.db.First(&u, "username = ?", "viewer1").Error)
	assert.Equal(t, policy.RolePublicViewer, u.Role)

	// Even an approved viewer never gets a token.
	require.NoError(t, e.db.Model(&u).Update("status", domain.StatusApproved).Error)
	w = e.doJSON(http.MethodPost, "/api/login", "", gin.H{"username": "viewer1", "password": "passw0rd!"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Public viewers do not have login access.", decode(t, w)["error"])
}

func TestLoginBadCredentials(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "esi", policy.RoleEditor, domain.StatusApproved)

	w := e.doJSON(http.MethodPost, "/api/login", "", gin.H{"username": "nobody", "password": "passw0rd!"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["error"])

	w = e.doJSON(http.MethodPost, "/api/login", "", gin.H{"username": "esi", "password": "wrong-pass1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["error"])

	w = e.doJSON(http.MethodPost, "/api/login", "", gin.H{"username": "esi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenRequired(t *testing.T) {
	e := newTestEnv(t)

	w := e.doForm(http.MethodPost, "/api/projects", "", map[string]string{"name": "x", "sector": "y"}, "", "", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "No token provided", decode(t, w)["error"])

	w = e.doForm(http.MethodPost, "/api/projects", "garbage.token.here", map[string]string{"name": "x", "sector": "y"}, "", "", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Failed to authenticate token", decode(t, w)["error"])
}

func TestRoleEnforcement(t *testing.T) {
	e := newTestEnv(t)
	analyst := e.tokenFor(t, e.seedUser(t, "analyst1", policy.RoleAnalyst, domain.StatusApproved))
	editor := e.tokenFor(t, e.seedUser(t, "editor1", policy.RoleEditor, domain.StatusApproved))

	// Analysts upload but don't edit.
	w := e.doForm(http.MethodPost, "/api/projects", analyst, map[string]string{"name": "x", "sector": "y"}, "", "", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: Editors only", decode(t, w)["error"])

	// Editors edit but don't delete or upload.
	w = e.doJSON(http.MethodDelete, "/api/projects/1", editor, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: Cannot delete records", decode(t, w)["error"])

	w = e.doForm(http.MethodPost, "/api/projects/bulk-upload", editor, nil, "file", "u.xlsx", []byte("x"))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: Uploaders only", decode(t, w)["error"])

	// Neither touches user management.
	w = e.doJSON(http.MethodGet, "/api/users", editor, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: Super Admin only", decode(t, w)["error"])
}

func TestProjectLifecycleAndCache(t *testing.T) {
	e := newTestEnv(t)
	editor := e.tokenFor(t, e.seedUser(t, "editor1", policy.RoleEditor, domain.StatusApproved))
	admin := e.tokenFor(t, e.seedUser(t, "radmin", policy.RoleRegionalAdmin, domain.StatusApproved))

	w := e.doForm(http.MethodPost, "/api/projects", editor, map[string]string{
		"name":         "Borehole A",
		"locations":    "Savelugu, Northern",
		"sector":       "water",
		"year":         "2025",
		"project_cost": "GHS 1,200,000",
	}, "", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "Project created", created["message"])
	id := int(created["id"].(float64))
	require.NotZero(t, id)

	// First list populates the cache.
	w = e.doJSON(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	require.Len(t, list["projects"], 1)
	p0 := list["projects"].([]any)[0].(map[string]any)
	assert.Equal(t, "Savelugu", p0["community"], "community derived from locations")
	assert.Equal(t, "1200000", p0["project_cost"], "cost sanitized on write")
	assert.Equal(t, "planned", p0["status"])

	// A second create must invalidate the cached listing.
	w = e.doForm(http.MethodPost, "/api/projects", editor, map[string]string{
		"name": "School Block", "sector": "education",
	}, "", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.doJSON(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["projects"], 2)

	// Update.
	w = e.doForm(http.MethodPut, fmt.Sprintf("/api/projects/%d", id), editor, map[string]string{
		"name": "Borehole A", "locations": "Savelugu, Northern", "sector": "water",
		"year": "2025", "status": "ongoing",
	}, "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Project updated", decode(t, w)["message"])

	// Delete is an archive transition.
	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Project archived", decode(t, w)["message"])

	w = e.doJSON(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["projects"], 1, "archived project leaves the listing")

	// But stays visible by id.
	w = e.doJSON(http.MethodGet, fmt.Sprintf("/api/projects/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "archived", decode(t, w)["status"])

	// Deleting it again is a 404.
	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", decode(t, w)["error"])
}

func TestProjectValidation(t *testing.T) {
	e := newTestEnv(t)
	editor := e.tokenFor(t, e.seedUser(t, "editor1", policy.RoleEditor, domain.StatusApproved))

	w := e.doForm(http.MethodPost, "/api/projects", editor, map[string]string{"locations": "Tamale"}, "", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and Sector are required", decode(t, w)["error"])

	w = e.doForm(http.MethodPut, "/api/projects/9999", editor, map[string]string{"name": "x", "sector": "y"}, "", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = e.doJSON(http.MethodGet, "/api/projects/9999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", decode(t, w)["error"])
}

func testWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestBulkUpload(t *testing.T) {
	e := newTestEnv(t)
	analyst := e.tokenFor(t, e.seedUser(t, "analyst1", policy.RoleAnalyst, domain.StatusApproved))

	wb := testWorkbook(t, [][]any{
		{"Name", "Sector", "Cost"},
		{"Borehole A", "Water", "1000"},
		{"", "water", "2000"},
		{"Clinic", "health", "3000"},
	})
	w := e.doForm(http.MethodPost, "/api/projects/bulk-upload", analyst, nil, "file", "upload.xlsx", wb)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Upload processed", body["message"])
	assert.EqualValues(t, 2, body["inserted"])
	assert.EqualValues(t, 1, body["skipped"])

	// Listing reflects the batch immediately.
	w = e.doJSON(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["projects"], 2)
}

func TestBulkUploadBadFile(t *testing.T) {
	e := newTestEnv(t)
	analyst := e.tokenFor(t, e.seedUser(t, "analyst1", policy.RoleAnalyst, domain.StatusApproved))

	w := e.doForm(http.MethodPost, "/api/projects/bulk-upload", analyst, nil, "file", "junk.xlsx", []byte("not a workbook"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Invalid file format. Header row with "Name" and "Sector" not found.`, decode(t, w)["error"])

	w = e.doForm(http.MethodPost, "/api/projects/bulk-upload", analyst, nil, "", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", decode(t, w)["error"])
}

func TestTemplateDownload(t *testing.T) {
	e := newTestEnv(t)
	w := e.doJSON(http.MethodGet, "/api/projects/template", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Project_Upload_Template.xlsx")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestScholarshipEndpoints(t *testing.T) {
	e := newTestEnv(t)
	editor := e.tokenFor(t, e.seedUser(t, "editor1", policy.RoleEditor, domain.StatusApproved))

	w := e.doJSON(http.MethodPost, "/api/scholarships", editor, gin.H{
		"beneficiary_name": "Abena", "institution": "UDS", "amount": 2500, "year": "2025",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "Scholarship added", created["message"])
	id := int(created["id"].(float64))

	w = e.doJSON(http.MethodPost, "/api/scholarships", editor, gin.H{"beneficiary_name": "NoSchool"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and Institution required", decode(t, w)["error"])

	w = e.doJSON(http.MethodGet, "/api/scholarships?year=2025", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["scholarships"].([]any)
	require.Len(t, list, 1)
	s := list[0].(map[string]any)
	assert.Equal(t, "Pending", s["status"], "status defaults")
	assert.Equal(t, "Tertiary", s["category"], "category defaults")

	w = e.doJSON(http.MethodPut, fmt.Sprintf("/api/scholarships/%d", id), editor, gin.H{
		"beneficiary_name": "Abena", "institution": "UDS", "amount": 3000, "year": "2025",
		"status": "Awarded", "category": "Tertiary",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Scholarship updated", decode(t, w)["message"])

	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/api/scholarships/%d", id), editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Scholarship deleted", decode(t, w)["message"])

	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/api/scholarships/%d", id), editor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardMetrics(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&domain.Project{Name: "A", Sector: "water", Status: "completed", ProjectCost: "1,000,000"}).Error)
	require.NoError(t, e.db.Create(&domain.Project{Name: "B", Sector: "scholarship", Status: "ongoing"}).Error)
	require.NoError(t, e.db.Create(&domain.Scholarship{BeneficiaryName: "Abena", Institution: "UDS", Amount: 5000}).Error)
	require.NoError(t, e.db.Create(&domain.ImpactMetric{Sector: "general", Label: "Jobs Created", Val: "120"}).Error)

	w := e.doJSON(http.MethodGet, "/api/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	counts := body["counts"].(map[string]any)
	assert.EqualValues(t, 2, counts["total"])
	assert.EqualValues(t, 1, counts["completed"])
	assert.EqualValues(t, 1, counts["ongoing"])

	metrics := body["metrics"].(map[string]any)
	assert.Equal(t, "120", metrics["Jobs Created"])
	assert.Equal(t, "2", metrics["Scholarships"], "scholarship rows plus sector=scholarship projects")
	assert.EqualValues(t, 1005000, metrics["Total Investment"])
}

func TestMetricUpsertEndpoint(t *testing.T) {
	e := newTestEnv(t)
	admin := e.tokenFor(t, e.seedUser(t, "root", policy.RoleSuperAdmin, domain.StatusApproved))

	w := e.doJSON(http.MethodPut, "/api/metrics", admin, gin.H{"label": "Jobs Created", "value": "120"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Metric created", decode(t, w)["message"])

	w = e.doJSON(http.MethodPut, "/api/metrics", admin, gin.H{"label": "Jobs Created", "value": "150"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Metric updated", decode(t, w)["message"])

	w = e.doJSON(http.MethodPut, "/api/metrics", admin, gin.H{"label": "", "value": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Label and value required", decode(t, w)["error"])
}

func TestImpactMetricsSynthesizedRow(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&domain.Project{Name: "A", Sector: "water", Status: "ongoing", ProjectCost: "2,500,000"}).Error)
	require.NoError(t, e.db.Create(&domain.ImpactMetric{Sector: "water", Label: "Boreholes", Val: "42"}).Error)

	w := e.doJSON(http.MethodGet, "/api/impact-metrics?sector=water", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode(t, w)["metrics"].([]any)
	require.Len(t, rows, 2)
	last := rows[len(rows)-1].(map[string]any)
	assert.Equal(t, "Sector Investment", last["label"])
	assert.Equal(t, "GHS 2.5M", last["val"])
}

func TestCommunitiesEndpoint(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&domain.Project{Name: "A", Sector: "water", Status: "completed", Community: "Tamale"}).Error)
	require.NoError(t, e.db.Create(&domain.Project{Name: "B", Sector: "water", Status: "ongoing", Community: "Tamale"}).Error)

	w := e.doJSON(http.MethodGet, "/api/communities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Tamale", rows[0]["name"])
	assert.EqualValues(t, 1, rows[0]["completed"])
	assert.EqualValues(t, 1, rows[0]["ongoing"])
	assert.Equal(t, "Just now", rows[0]["update"])
}

func TestCompletionRatesEndpoint(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.Create(&domain.CompletionRate{Sector: "water", Rate: 80}).Error)

	w := e.doJSON(http.MethodGet, "/api/completion-rates?sector=water", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rates := decode(t, w)["rates"].([]any)
	require.Len(t, rates, 1)
	assert.EqualValues(t, 80, rates[0].(map[string]any)["rate"])
}

func TestUserAdministration(t *testing.T) {
	e := newTestEnv(t)
	admin := e.tokenFor(t, e.seedUser(t, "root", policy.RoleSuperAdmin, domain.StatusApproved))

	w := e.doJSON(http.MethodPost, "/api/users", admin, gin.H{
		"username": "new_editor", "password": "passw0rd!", "role": policy.RoleEditor,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created", decode(t, w)["message"])

	var u domain.User
	require.NoError(t, e.db.First(&u, "username = ?", "new_editor").Error)
	assert.Equal(t, domain.StatusApproved, u.Status, "admin-created accounts start approved")

	w = e.doJSON(http.MethodPost, "/api/users", admin, gin.H{"username": "x", "password": "passw0rd!", "role": "bogus"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid role", decode(t, w)["error"])

	w = e.doJSON(http.MethodGet, "/api/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]any)
	assert.Len(t, users, 2)
	assert.NotContains(t, w.Body.String(), "password", "hashes never serialize")

	w = e.doJSON(http.MethodPut, fmt.Sprintf("/api/users/%d", u.ID), admin, gin.H{"role": policy.RoleAnalyst})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User updated successfully", decode(t, w)["message"])

	w = e.doJSON(http.MethodPut, fmt.Sprintf("/api/users/%d", u.ID), admin, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No changes provided", decode(t, w)["error"])

	w = e.doJSON(http.MethodPut, fmt.Sprintf("/api/users/%d/status", u.ID), admin, gin.H{"status": "blocked"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User status updated to blocked", decode(t, w)["message"])

	w = e.doJSON(http.MethodPut, fmt.Sprintf("/api/users/%d/status", u.ID), admin, gin.H{"status": "vanished"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", decode(t, w)["error"])

	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/api/users/%d", u.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted", decode(t, w)["message"])

	w = e.doJSON(http.MethodDelete, fmt.Sprintf("/api/users/%d", u.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditTrailWritten(t *testing.T) {
	e := newTestEnv(t)
	editor := e.tokenFor(t, e.seedUser(t, "editor1", policy.RoleEditor, domain.StatusApproved))

	w := e.doForm(http.MethodPost, "/api/projects", editor, map[string]string{"name": "Borehole", "sector": "water"}, "", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var entry domain.AuditLog
	require.NoError(t, e.db.First(&entry, "action = ?", audit.ActionCreateProject).Error)
	assert.Equal(t, "editor1", entry.Username)
	assert.Contains(t, entry.Details, "Borehole")
	assert.False(t, strings.Contains(entry.Details, "passw0rd"), "credentials never reach the audit trail")
}
