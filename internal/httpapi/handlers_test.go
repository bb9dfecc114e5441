package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itam-platform/internal/assets"
	"itam-platform/internal/audit"
	"itam-platform/internal/auth"
	"itam-platform/internal/backups"
	"itam-platform/internal/config"
	"itam-platform/internal/docs"
	"itam-platform/internal/rbac"
	"itam-platform/internal/reporting"
	"itam-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router *gin.Engine

	userRepo   *users.MemoryRepo
	assetRepo  *assets.MemoryRepo
	docRepo    *docs.MemoryRepo
	backupRepo *backups.MemoryRepo
	auditRepo  *audit.MemoryRepo

	manager *auth.Manager
	revoker *auth.MemoryRevoker
}

// newTestEnv builds a full router over in-memory stores, mirroring the
// production route wiring.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}

	env := &testEnv{
		userRepo:   users.NewMemoryRepo(),
		assetRepo:  assets.NewMemoryRepo(),
		docRepo:    docs.NewMemoryRepo(),
		backupRepo: backups.NewMemoryRepo(),
		auditRepo:  audit.NewMemoryRepo(),
		manager:    manager,
		revoker:    auth.NewMemoryRevoker(),
	}

	h := Handlers{
		Auth:    manager,
		Revoker: env.revoker,
		Users:   users.NewService(env.userRepo),
		Assets:  assets.NewService(env.assetRepo),
		Docs:    docs.NewService(env.docRepo, nil),
		Backups: backups.NewService(env.backupRepo),
		Audit:   audit.NewService(env.auditRepo, nil),
		Reports: reporting.NewService(reporting.RepoAdapter{
			Assets:  env.assetRepo,
			Backups: env.backupRepo,
			Docs:    env.docRepo,
		}),
	}

	optionalAuth := auth.OptionalAccessToken(manager, env.revoker)
	requireAuth := auth.RequireAccessToken(manager, env.revoker)
	staff := rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleTI)
	adminOnly := rbac.RequireAnyRole(rbac.RoleAdmin)

	r := gin.New()
	v1 := r.Group("/v1")

	v1.POST("/auth/login", h.Login)
	v1.POST("/auth/refresh", h.Refresh)
	v1.POST("/auth/logout", requireAuth, h.Logout)
	v1.GET("/me", requireAuth, h.Me)

	v1.GET("/assets", optionalAuth, h.ListAssets)
	v1.GET("/assets/:id", optionalAuth, h.GetAsset)
	v1.GET("/assets/:id/history", optionalAuth, h.AssetHistory)
	v1.POST("/assets", requireAuth, staff, h.CreateAsset)
	v1.PUT("/assets/:id", requireAuth, staff, h.UpdateAsset)

	v1.GET("/docs", optionalAuth, h.ListDocuments)
	v1.GET("/docs/:id", optionalAuth, h.GetDocument)
	v1.POST("/docs", requireAuth, staff, h.CreateDocument)
	v1.PUT("/docs/:id", requireAuth, staff, h.UpdateDocument)
	v1.DELETE("/docs/:id", requireAuth, adminOnly, h.DeleteDocument)
	v1.POST("/docs/:id/reveal", requireAuth, staff, h.RevealCredential)
	v1.GET("/docs/categories", optionalAuth, h.ListCategories)
	v1.POST("/docs/categories", requireAuth, staff, h.CreateCategory)

	v1.GET("/backups/routines", optionalAuth, h.ListBackupRoutines)
	v1.POST("/backups/routines", requireAuth, staff, h.CreateBackupRoutine)
	v1.POST("/backups/routines/:id/execute", requireAuth, staff, h.ExecuteBackup)
	v1.GET("/backups/logs", optionalAuth, h.ListBackupLogs)

	v1.GET("/admin/logs", requireAuth, adminOnly, h.AuditLogs)
	v1.GET("/dashboard/summary", optionalAuth, h.DashboardSummary)

	env.router = r
	return env
}

func (e *testEnv) addUser(t *testing.T, id, email, password, role string) {
	t.Helper()
	hash, err := users.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	e.userRepo.Add(users.User{ID: id, Email: email, Name: "User " + id, PasswordHash: hash, Role: role})
}

func (e *testEnv) tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	pair, err := e.manager.IssuePair(time.Now(), userID, role)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	return pair.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestLogin_IssuesTokensForValidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "admin@empresa.com", "s3nha-forte", string(rbac.RoleAdmin))

	w := env.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{
		"email": "Admin@Empresa.com", "password": "s3nha-forte",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	resp := decode[map[string]json.RawMessage](t, w)
	for _, k := range []string{"accessToken", "refreshToken", "user"} {
		if _, ok := resp[k]; !ok {
			t.Fatalf("response missing %q", k)
		}
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("login response must not carry password fields")
	}
}

func TestLogin_WrongPasswordAndUnknownEmailAreIdentical(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "admin@empresa.com", "s3nha-forte", string(rbac.RoleAdmin))

	wrong := env.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{
		"email": "admin@empresa.com", "password": "errada",
	})
	unknown := env.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{
		"email": "ghost@empresa.com", "password": "errada",
	})
	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("failure responses must be indistinguishable: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
}

func TestMutations_RequireAuthenticationAndWriteNothing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/assets", "", assets.CreateInput{
		ID: "PAT-001", Name: "Servidor", Status: assets.StatusActive,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	list, _ := env.assetRepo.List(nil)
	if len(list) != 0 {
		t.Fatalf("rejected request must not write")
	}
	if len(env.auditRepo.Events()) != 0 {
		t.Fatalf("rejected request must not audit")
	}
}

func TestMutations_ViewerIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	tok := env.tokenFor(t, "v1", string(rbac.RoleViewer))

	w := env.do(t, http.MethodPost, "/v1/assets", tok, assets.CreateInput{
		ID: "PAT-001", Name: "Servidor", Status: assets.StatusActive,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d %s", w.Code, w.Body.String())
	}
	if list, _ := env.assetRepo.List(nil); len(list) != 0 {
		t.Fatalf("forbidden request must not write")
	}
}

func TestCreateAsset_WritesHistoryAndAudit(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ti-1", "ti@empresa.com", "senha", string(rbac.RoleTI))
	tok := env.tokenFor(t, "ti-1", string(rbac.RoleTI))

	w := env.do(t, http.MethodPost, "/v1/assets", tok, assets.CreateInput{
		ID: "PAT-001", Name: "Servidor de arquivos", Type: "Servidor",
		Location: "Datacenter", Status: assets.StatusActive, IP: "10.0.0.5",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	hw := env.do(t, http.MethodGet, "/v1/assets/PAT-001/history", "", nil)
	history := decode[[]assets.AssetHistory](t, hw)
	if len(history) != 1 || history[0].Action != assets.HistoryActionCreated {
		t.Fatalf("expected one creation history row, got %+v", history)
	}

	events := env.auditRepo.Events()
	if len(events) != 1 || events[0].Action != audit.ActionCreateAsset || events[0].UserID != "ti-1" {
		t.Fatalf("expected one CREATE_ASSET audit event, got %+v", events)
	}
}

func TestDocumentLifecycle_MaskingAndDeleteRBAC(t *testing.T) {
	env := newTestEnv(t)
	tiTok := env.tokenFor(t, "ti-1", string(rbac.RoleTI))
	adminTok := env.tokenFor(t, "adm-1", string(rbac.RoleAdmin))

	cw := env.do(t, http.MethodPost, "/v1/docs/categories", tiTok, gin.H{"name": "Acessos"})
	if cw.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", cw.Code, cw.Body.String())
	}
	cat := decode[docs.DocCategory](t, cw)
	if cat.Icon != docs.DefaultCategoryIcon {
		t.Fatalf("expected default icon, got %q", cat.Icon)
	}

	dw := env.do(t, http.MethodPost, "/v1/docs", tiTok, docs.DocumentInput{
		Title: "Root do firewall", CategoryID: cat.ID, Type: docs.TypeCredential,
		CredUser: "root", CredPass: "segredo",
	})
	if dw.Code != http.StatusCreated {
		t.Fatalf("create doc: %d %s", dw.Code, dw.Body.String())
	}
	doc := decode[docs.Document](t, dw)
	if doc.CredPass == nil || *doc.CredPass != docs.MaskSecret {
		t.Fatalf("create response must be masked, got %v", doc.CredPass)
	}

	lw := env.do(t, http.MethodGet, "/v1/docs", "", nil)
	if bytes.Contains(lw.Body.Bytes(), []byte("$2")) {
		t.Fatalf("listing must never leak a hash: %s", lw.Body.String())
	}

	rw := env.do(t, http.MethodPost, "/v1/docs/"+doc.ID+"/reveal", tiTok, nil)
	if rw.Code != http.StatusOK {
		t.Fatalf("reveal: %d %s", rw.Code, rw.Body.String())
	}
	reveal := decode[docs.RevealResult](t, rw)
	if reveal.CredUser != "root" || !reveal.HasSecret {
		t.Fatalf("unexpected reveal: %+v", reveal)
	}

	if w := env.do(t, http.MethodDelete, "/v1/docs/"+doc.ID, tiTok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("TI delete must be forbidden, got %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/v1/docs/"+doc.ID, adminTok, nil); w.Code != http.StatusNoContent {
		t.Fatalf("admin delete: %d %s", w.Code, w.Body.String())
	}
}

func TestAnonymousDocumentViewIsLogged(t *testing.T) {
	env := newTestEnv(t)
	tok := env.tokenFor(t, "ti-1", string(rbac.RoleTI))

	cw := env.do(t, http.MethodPost, "/v1/docs/categories", tok, gin.H{"name": "Redes"})
	cat := decode[docs.DocCategory](t, cw)
	dw := env.do(t, http.MethodPost, "/v1/docs", tok, docs.DocumentInput{
		Title: "Topologia", CategoryID: cat.ID, Type: "Diagrama",
	})
	doc := decode[docs.Document](t, dw)

	if w := env.do(t, http.MethodGet, "/v1/docs/"+doc.ID, "", nil); w.Code != http.StatusOK {
		t.Fatalf("anonymous read: %d", w.Code)
	}

	logs := env.docRepo.AccessLogs()
	last := logs[len(logs)-1]
	if last.Action != docs.AccessView || last.UserID != nil {
		t.Fatalf("expected anonymous VIEW log, got %+v", last)
	}
}

func TestExecuteBackup_MirrorsRoutineStatus(t *testing.T) {
	env := newTestEnv(t)
	tok := env.tokenFor(t, "ti-1", string(rbac.RoleTI))

	cw := env.do(t, http.MethodPost, "/v1/backups/routines", tok, backups.RoutineInput{
		Name: "Banco diário", Type: "Completo", Frequency: "Diária",
	})
	if cw.Code != http.StatusCreated {
		t.Fatalf("create routine: %d %s", cw.Code, cw.Body.String())
	}
	routine := decode[backups.BackupRoutine](t, cw)
	if routine.Status != backups.StatusPending {
		t.Fatalf("new routine must be pending, got %q", routine.Status)
	}

	ew := env.do(t, http.MethodPost, "/v1/backups/routines/"+routine.ID+"/execute", tok, backups.ExecutionInput{
		Status: backups.StatusError, LogOutput: "disco cheio",
	})
	if ew.Code != http.StatusCreated {
		t.Fatalf("execute: %d %s", ew.Code, ew.Body.String())
	}

	lw := env.do(t, http.MethodGet, "/v1/backups/routines", "", nil)
	routines := decode[[]backups.BackupRoutine](t, lw)
	if len(routines) != 1 || routines[0].Status != backups.StatusError || routines[0].LastRun == nil {
		t.Fatalf("routine must mirror the run, got %+v", routines)
	}

	gw := env.do(t, http.MethodGet, "/v1/backups/logs?routineId="+routine.ID, "", nil)
	logs := decode[[]backups.BackupLog](t, gw)
	if len(logs) != 1 || logs[0].Status != backups.StatusError {
		t.Fatalf("expected one error log, got %+v", logs)
	}
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "adm-1", "admin@empresa.com", "senha", string(rbac.RoleAdmin))
	tok := env.tokenFor(t, "adm-1", string(rbac.RoleAdmin))

	if w := env.do(t, http.MethodGet, "/v1/me", tok, nil); w.Code != http.StatusOK {
		t.Fatalf("me before logout: %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/v1/auth/logout", tok, nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/v1/me", tok, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token must be rejected, got %d", w.Code)
	}
}

func TestRefresh_RotatesAndPicksUpRoleChange(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "ti@empresa.com", "senha", string(rbac.RoleTI))

	pair, err := env.manager.IssuePair(time.Now(), "u1", string(rbac.RoleTI))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Role change lands in the store before the refresh.
	env.userRepo.Add(users.User{ID: "u1", Email: "ti@empresa.com", Name: "User u1", Role: string(rbac.RoleViewer)})

	w := env.do(t, http.MethodPost, "/v1/auth/refresh", "", gin.H{"refreshToken": pair.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}
	resp := decode[map[string]string](t, w)

	claims, err := env.manager.Verify(resp["accessToken"], auth.TokenTypeAccess, time.Now())
	if err != nil {
		t.Fatalf("verify new access token: %v", err)
	}
	if claims.Role != string(rbac.RoleViewer) {
		t.Fatalf("refreshed token must carry the new role, got %q", claims.Role)
	}

	// The old refresh token was rotated out.
	again := env.do(t, http.MethodPost, "/v1/auth/refresh", "", gin.H{"refreshToken": pair.RefreshToken})
	if again.Code != http.StatusUnauthorized {
		t.Fatalf("rotated refresh token must be rejected, got %d", again.Code)
	}
}

func TestDashboardSummary_CountsLiveData(t *testing.T) {
	env := newTestEnv(t)
	tok := env.tokenFor(t, "ti-1", string(rbac.RoleTI))

	env.do(t, http.MethodPost, "/v1/assets", tok, assets.CreateInput{
		ID: "PAT-001", Name: "Servidor", Status: assets.StatusActive,
	})
	env.do(t, http.MethodPost, "/v1/backups/routines", tok, backups.RoutineInput{
		Name: "Banco", Type: "Completo", Frequency: "Diária",
	})

	w := env.do(t, http.MethodGet, "/v1/dashboard/summary", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", w.Code, w.Body.String())
	}
	sum := decode[reporting.Summary](t, w)
	if sum.Assets.Total != 1 || sum.Assets.Active != 1 {
		t.Fatalf("unexpected asset summary: %+v", sum.Assets)
	}
	if sum.Backups.Routines != 1 || sum.Backups.Pending != 1 {
		t.Fatalf("unexpected backup summary: %+v", sum.Backups)
	}
}

func TestAuditLogs_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	tiTok := env.tokenFor(t, "ti-1", string(rbac.RoleTI))
	adminTok := env.tokenFor(t, "adm-1", string(rbac.RoleAdmin))

	if w := env.do(t, http.MethodGet, "/v1/admin/logs", tiTok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("TI must not read audit logs, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/v1/admin/logs", adminTok, nil); w.Code != http.StatusOK {
		t.Fatalf("admin audit listing: %d %s", w.Code, w.Body.String())
	}
}
