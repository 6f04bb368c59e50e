package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"complaints/server/internal/models"
	"complaints/server/internal/services"
)

func publicRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewComplaintController(services.NewComplaintService(db))

	r := gin.New()
	complaints := r.Group("/api/v1/complaints")
	{
		complaints.POST("", controller.SubmitComplaint)
		complaints.GET("/status/:complaintNumber", controller.GetComplaintStatus)
		complaints.GET("/branch/:branchId", controller.GetBranchComplaints)
	}
	return r
}

func seedTestBranch(t *testing.T, db *gorm.DB, name string) *models.Branch {
	t.Helper()

	branch := models.Branch{
		Name:     name,
		Address:  "ул. Тестовая, 1",
		City:     "Москва",
		IsActive: true,
	}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("не удалось создать филиал: %v", err)
	}
	return &branch
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitComplaintEndpoint(t *testing.T) {
	db := newTestDB(t)
	branch := seedTestBranch(t, db, "Центральный")
	r := publicRouter(db)

	w := postJSON(r, "/api/v1/complaints", gin.H{
		"branchId":      branch.ID,
		"customerName":  "Анна Смирнова",
		"complaintType": "service_issue",
		"description":   "Очень долго ждали заказ",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("ожидался 201, получен %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("тело ответа не JSON: %v", err)
	}
	if body["success"] != true {
		t.Errorf("ожидался success=true: %v", body)
	}
	number, _ := body["complaintNumber"].(string)
	if number == "" {
		t.Fatal("в ответе нет complaintNumber")
	}

	// По выданному номеру жалоба находится
	w = getJSON(r, "/api/v1/complaints/status/"+number)
	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}
	var statusBody struct {
		Complaint struct {
			Status     string `json:"status"`
			BranchName string `json:"branchName"`
		} `json:"complaint"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statusBody); err != nil {
		t.Fatalf("тело ответа не JSON: %v", err)
	}
	if statusBody.Complaint.Status != "pending" {
		t.Errorf("ожидался статус pending, получен %q", statusBody.Complaint.Status)
	}
	if statusBody.Complaint.BranchName != "Центральный" {
		t.Errorf("ожидалось название филиала, получено %q", statusBody.Complaint.BranchName)
	}
}

func TestSubmitComplaintValidationError(t *testing.T) {
	db := newTestDB(t)
	branch := seedTestBranch(t, db, "Центральный")
	r := publicRouter(db)

	w := postJSON(r, "/api/v1/complaints", gin.H{
		"branchId":      branch.ID,
		"customerName":  "А",
		"complaintType": "service_issue",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400, получен %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("тело ответа не JSON: %v", err)
	}
	if body["error"] != "Ошибка валидации" {
		t.Errorf("ожидалось тело ошибки валидации: %v", body)
	}
}

func TestSubmitComplaintUnknownBranch(t *testing.T) {
	db := newTestDB(t)
	r := publicRouter(db)

	w := postJSON(r, "/api/v1/complaints", gin.H{
		"branchId":      "ffffffff-0000-0000-0000-000000000000",
		"customerName":  "Анна Смирнова",
		"complaintType": "other",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400 для несуществующего филиала, получен %d: %s", w.Code, w.Body.String())
	}
}

func TestGetComplaintStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	r := publicRouter(db)

	w := getJSON(r, "/api/v1/complaints/status/COMP-0000000000000-XXXX")
	if w.Code != http.StatusNotFound {
		t.Fatalf("ожидался 404, получен %d: %s", w.Code, w.Body.String())
	}
}

func TestGetBranchComplaints(t *testing.T) {
	db := newTestDB(t)
	branch := seedTestBranch(t, db, "Центральный")
	other := seedTestBranch(t, db, "Северный")
	r := publicRouter(db)

	for _, branchID := range []string{branch.ID, branch.ID, other.ID} {
		complaint := models.Complaint{
			BranchID:      branchID,
			CustomerName:  "Тестовый Клиент",
			ComplaintType: models.ComplaintTypeOther,
			Priority:      models.ComplaintPriorityMedium,
			Status:        models.ComplaintStatusPending,
		}
		if err := db.Create(&complaint).Error; err != nil {
			t.Fatalf("не удалось создать жалобу: %v", err)
		}
	}

	w := getJSON(r, "/api/v1/complaints/branch/"+branch.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Total      int                `json:"total"`
		Complaints []models.Complaint `json:"complaints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("тело ответа не JSON: %v", err)
	}
	if body.Total != 2 || len(body.Complaints) != 2 {
		t.Fatalf("ожидалось 2 жалобы филиала, получено %d", body.Total)
	}
	for _, c := range body.Complaints {
		if c.BranchID != branch.ID {
			t.Errorf("жалоба чужого филиала в выборке: %s", c.BranchID)
		}
	}
}
