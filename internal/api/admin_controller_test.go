package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"complaints/server/internal/models"
	"complaints/server/internal/services"
)

func adminRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	complaints := services.NewComplaintService(db)
	controller := NewAdminController(complaints, services.NewExportService())
	auth := NewAuthController(db, testJWTSecret)

	r := gin.New()
	r.POST("/api/v1/auth/login", auth.Login)
	admin := r.Group("/api/v1/admin")
	admin.Use(RequireAdmin(db, testJWTSecret))
	{
		admin.GET("/complaints", controller.GetComplaints)
		admin.PUT("/complaints/:id/status", controller.UpdateComplaintStatus)
		admin.GET("/stats", controller.GetStats)
		admin.GET("/export", controller.ExportComplaints)
	}
	return r
}

// loginToken логинится через endpoint и возвращает выданный токен
func loginToken(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()

	w := postJSON(r, "/api/v1/auth/login", gin.H{"username": username, "password": password})
	if w.Code != http.StatusOK {
		t.Fatalf("логин: ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("тело ответа логина не JSON: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("логин не вернул токен")
	}
	return resp.Token
}

func getWithToken(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "admin", true)
	r := adminRouter(db)

	// Неизвестный логин и неверный пароль дают одинаковый ответ
	unknown := postJSON(r, "/api/v1/auth/login", gin.H{"username": "ghost", "password": "secret123"})
	badPass := postJSON(r, "/api/v1/auth/login", gin.H{"username": "admin", "password": "wrong"})

	for _, w := range []*httptest.ResponseRecorder{unknown, badPass} {
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("ожидался 401, получен %d", w.Code)
		}
	}
	if unknown.Body.String() != badPass.Body.String() {
		t.Errorf("ответы должны совпадать: %s != %s", unknown.Body.String(), badPass.Body.String())
	}
}

func TestAdminComplaintWorkflow(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "admin", true)
	branch := seedTestBranch(t, db, "Центральный")
	r := adminRouter(db)

	complaint := models.Complaint{
		BranchID:      branch.ID,
		CustomerName:  "Петр Иванов",
		ComplaintType: models.ComplaintTypeProductQuality,
		Priority:      models.ComplaintPriorityHigh,
		Status:        models.ComplaintStatusPending,
		Description:   "Товар оказался бракованным",
	}
	if err := db.Create(&complaint).Error; err != nil {
		t.Fatalf("не удалось создать жалобу: %v", err)
	}

	token := loginToken(t, r, "admin", "secret123")

	// Листинг с фильтром по статусу
	w := getWithToken(r, "/api/v1/admin/complaints?status=pending", token)
	if w.Code != http.StatusOK {
		t.Fatalf("листинг: ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}
	var listBody struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("тело листинга не JSON: %v", err)
	}
	if listBody.Total != 1 {
		t.Fatalf("ожидалась 1 жалоба, получено %d", listBody.Total)
	}

	// Смена статуса с резолюцией
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/complaints/"+complaint.ID+"/status",
		strings.NewReader(`{"status":"resolved","resolution":"Заменили товар"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("смена статуса: ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}

	var stored models.Complaint
	if err := db.First(&stored, "id = ?", complaint.ID).Error; err != nil {
		t.Fatalf("жалоба не найдена: %v", err)
	}
	if stored.Status != models.ComplaintStatusResolved || stored.Resolution != "Заменили товар" {
		t.Errorf("статус не обновился: %s / %q", stored.Status, stored.Resolution)
	}

	// Статистика отражает жалобу
	w = getWithToken(r, "/api/v1/admin/stats?period=30", token)
	if w.Code != http.StatusOK {
		t.Fatalf("статистика: ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}
	var statsBody struct {
		Stats services.Statistics `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statsBody); err != nil {
		t.Fatalf("тело статистики не JSON: %v", err)
	}
	if statsBody.Stats.TotalComplaints != 1 || statsBody.Stats.Resolved != 1 {
		t.Errorf("статистика расходится: %+v", statsBody.Stats)
	}

	// Выгрузка CSV
	w = getWithToken(r, "/api/v1/admin/export", token)
	if w.Code != http.StatusOK {
		t.Fatalf("выгрузка: ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type выгрузки: %q", ct)
	}
	if !strings.Contains(w.Body.String(), stored.ComplaintNumber) {
		t.Errorf("номер жалобы отсутствует в выгрузке:\n%s", w.Body.String())
	}
}

func TestExportRejectsMalformedDate(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db, "admin", true)
	r := adminRouter(db)

	token := loginToken(t, r, "admin", "secret123")
	w := getWithToken(r, "/api/v1/admin/export?start_date=вчера", token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400 для кривой даты, получен %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	db := newTestDB(t)
	r := adminRouter(db)

	for _, path := range []string{
		"/api/v1/admin/complaints",
		"/api/v1/admin/stats",
		"/api/v1/admin/export",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s без токена: ожидался 401, получен %d", path, w.Code)
		}
	}
}
