package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Photo{}, &db.Assignment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return NewAPI(db.DB, "web/static/uploads", "/static/uploads"), func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func postJSON(t *testing.T, api func(*gin.Context), target string, payload map[string]any, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params

	api(c)
	return w
}

func TestListPhotosPaginated(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 1; i <= 5; i++ {
		photo := db.Photo{Title: "照片" + strconv.Itoa(i), ImageURL: "u", DisplayOrder: i}
		if err := db.DB.Create(&photo).Error; err != nil {
			t.Fatalf("failed to seed photo: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/photos?page=2&per_page=2", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.ListPhotos(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items      []db.Photo `json:"items"`
		Total      int64      `json:"total"`
		TotalPages int        `json:"totalPages"`
		Page       int        `json:"page"`
		PerPage    int        `json:"perPage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 5 || resp.TotalPages != 3 || resp.Page != 2 || resp.PerPage != 2 {
		t.Fatalf("unexpected pagination meta: %+v", resp)
	}
	if len(resp.Items) != 2 || resp.Items[0].DisplayOrder != 3 {
		t.Fatalf("unexpected page window: %+v", resp.Items)
	}

	// 不带分页参数时回落到默认第一页
	req = httptest.NewRequest(http.MethodGet, "/admin/api/photos", nil)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = req

	api.ListPhotos(c)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Page != 1 || resp.PerPage != 12 || len(resp.Items) != 5 {
		t.Fatalf("unexpected default paging: %+v", resp)
	}
}

func TestCreatePhotoValidation(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := postJSON(t, api.CreatePhoto, "/admin/api/photos", map[string]any{
		"imageUrl": "https://example.com/a.jpg",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing title, got %d", w.Code)
	}

	w = postJSON(t, api.CreatePhoto, "/admin/api/photos", map[string]any{
		"title": "日出",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing image, got %d", w.Code)
	}
}

func TestCreateAndGetPhoto(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := postJSON(t, api.CreatePhoto, "/admin/api/photos", map[string]any{
		"title":    "山间日出",
		"imageUrl": "https://example.com/sunrise.jpg",
		"category": "风光",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Item db.Photo `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Item.ID == 0 || created.Item.Status != "draft" {
		t.Fatalf("unexpected created photo: %+v", created.Item)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/photos/"+strconv.Itoa(int(created.Item.ID)), nil)
	w2 := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w2)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(created.Item.ID))}}

	api.GetPhoto(c)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w2.Code)
	}
}

func TestUpdatePhotoPartial(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	photo := db.Photo{Title: "原标题", ImageURL: "u1", Status: "draft"}
	if err := db.DB.Create(&photo).Error; err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	body, _ := json.Marshal(map[string]any{"status": "published"})
	req := httptest.NewRequest(http.MethodPut, "/admin/api/photos/"+strconv.Itoa(int(photo.ID)), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(photo.ID))}}

	api.UpdatePhoto(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var got db.Photo
	if err := db.DB.First(&got, photo.ID).Error; err != nil {
		t.Fatalf("failed to reload photo: %v", err)
	}
	if got.Status != "published" {
		t.Fatalf("expected status published, got %s", got.Status)
	}
	if got.Title != "原标题" {
		t.Fatalf("expected title untouched, got %s", got.Title)
	}
}

func TestDeletePhotoNotFound(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodDelete, "/admin/api/photos/999", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "999"}}

	api.DeletePhoto(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestReorderPhotosSwap(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	a := db.Photo{Title: "A", ImageURL: "u1", DisplayOrder: 5}
	b := db.Photo{Title: "B", ImageURL: "u2", DisplayOrder: 2}
	if err := db.DB.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}
	if err := db.DB.Create(&b).Error; err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	w := postJSON(t, api.ReorderPhotos, "/admin/api/photos/reorder", map[string]any{
		"a_id": a.ID,
		"b_id": b.ID,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var gotA, gotB db.Photo
	db.DB.First(&gotA, a.ID)
	db.DB.First(&gotB, b.ID)
	if gotA.DisplayOrder != 2 || gotB.DisplayOrder != 5 {
		t.Fatalf("expected swapped orders, got a=%d b=%d", gotA.DisplayOrder, gotB.DisplayOrder)
	}

	w = postJSON(t, api.ReorderPhotos, "/admin/api/photos/reorder", map[string]any{
		"a_id": a.ID,
		"b_id": 999,
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown photo, got %d", w.Code)
	}
}

func TestBatchDisplayOrder(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	a := db.Photo{Title: "A", ImageURL: "u1", DisplayOrder: 1}
	b := db.Photo{Title: "B", ImageURL: "u2", DisplayOrder: 2}
	if err := db.DB.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}
	if err := db.DB.Create(&b).Error; err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}

	w := postJSON(t, api.BatchDisplayOrder, "/admin/api/photos/display-order", map[string]any{
		"orders": []map[string]any{
			{"id": a.ID, "displayOrder": 2},
			{"id": b.ID, "displayOrder": 1},
		},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var gotA, gotB db.Photo
	db.DB.First(&gotA, a.ID)
	db.DB.First(&gotB, b.ID)
	if gotA.DisplayOrder != 2 || gotB.DisplayOrder != 1 {
		t.Fatalf("expected updated orders, got a=%d b=%d", gotA.DisplayOrder, gotB.DisplayOrder)
	}

	w = postJSON(t, api.BatchDisplayOrder, "/admin/api/photos/display-order", map[string]any{
		"orders": []map[string]any{},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty batch, got %d", w.Code)
	}

	w = postJSON(t, api.BatchDisplayOrder, "/admin/api/photos/display-order", map[string]any{
		"orders": []map[string]any{
			{"id": a.ID, "displayOrder": 9},
			{"id": 999, "displayOrder": 10},
		},
	}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown photo, got %d", w.Code)
	}
	db.DB.First(&gotA, a.ID)
	if gotA.DisplayOrder != 2 {
		t.Fatalf("expected rollback to keep order 2, got %d", gotA.DisplayOrder)
	}
}
