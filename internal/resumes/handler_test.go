package resumes_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/bootstrap"
	"resume-builder-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) (*bootstrap.App, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpDir := t.TempDir()
	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		UploadTmpDir:    tmpDir,
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app, tmpDir
}

func registerUser(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	payload := `{"name":"Test User","email":"` + email + `","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("register returned empty token")
	}
	return out.Token
}

func createResume(t *testing.T, router *gin.Engine, token, title string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/resume/create", strings.NewReader(`{"title":"`+title+`"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Resume struct {
			ID string `json:"id"`
		} `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if out.Resume.ID == "" {
		t.Fatal("create returned empty resume id")
	}
	return out.Resume.ID
}

func updateForm(t *testing.T, fields map[string]string, imageName string, imageBytes []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if imageName != "" {
		fw, err := writer.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(imageBytes); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestResumeUpdateFlow(t *testing.T) {
	app, _ := buildTestApp(t)
	router := app.Router
	token := registerUser(t, router, "owner@example.com")
	resumeID := createResume(t, router, token, "First draft")

	body, contentType := updateForm(t, map[string]string{
		"resumeId":   resumeID,
		"resumeData": `{"title":"Second draft","personal_info":{"full_name":"Ada"},"skills":["Go"]}`,
	}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/resume/update", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var updated struct {
		Message string `json:"message"`
		Resume  struct {
			Title  string `json:"title"`
			UserID string `json:"userId"`
		} `json:"resume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Message != "Resume updated successfully." {
		t.Fatalf("message = %q", updated.Message)
	}
	if updated.Resume.Title != "Second draft" {
		t.Fatalf("title = %q", updated.Resume.Title)
	}

	// Read back through the owner surface.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/resume/get/"+resumeID, nil)
	reqGet.Header.Set("Authorization", "Bearer "+token)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("get status = %d", respGet.Code)
	}
	if !strings.Contains(respGet.Body.String(), `"full_name":"Ada"`) {
		t.Fatalf("stored content missing: %s", respGet.Body.String())
	}
}

func TestResumeUpdateWrongOwner(t *testing.T) {
	app, _ := buildTestApp(t)
	router := app.Router
	ownerToken := registerUser(t, router, "owner@example.com")
	intruderToken := registerUser(t, router, "intruder@example.com")
	resumeID := createResume(t, router, ownerToken, "Mine")

	body, contentType := updateForm(t, map[string]string{
		"resumeId":   resumeID,
		"resumeData": `{"title":"Stolen"}`,
	}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/resume/update", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+intruderToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "Resume not found or you don't have access." {
		t.Fatalf("message = %q", out["message"])
	}
}

func TestResumeUpdateMalformedData(t *testing.T) {
	app, _ := buildTestApp(t)
	router := app.Router
	token := registerUser(t, router, "owner@example.com")
	resumeID := createResume(t, router, token, "T")

	body, contentType := updateForm(t, map[string]string{
		"resumeId":   resumeID,
		"resumeData": `{not json`,
	}, "", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/resume/update", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Invalid resumeData JSON") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestResumeUpdateCleansUpSpooledImage(t *testing.T) {
	app, tmpDir := buildTestApp(t)
	router := app.Router
	token := registerUser(t, router, "owner@example.com")
	resumeID := createResume(t, router, token, "T")

	// No image service is configured, so the upload fails after spooling; the
	// temp file must still be removed.
	body, contentType := updateForm(t, map[string]string{
		"resumeId":   resumeID,
		"resumeData": `{"title":"T"}`,
	}, "photo.png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPut, "/api/resume/update", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body = %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Image upload failed") {
		t.Fatalf("body = %s", resp.Body.String())
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read tmp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("spooled files left behind: %d", len(entries))
	}
}

func TestResumePublicSurface(t *testing.T) {
	app, _ := buildTestApp(t)
	router := app.Router
	token := registerUser(t, router, "owner@example.com")
	resumeID := createResume(t, router, token, "Shared")

	// Private by default.
	req := httptest.NewRequest(http.MethodGet, "/api/resume/public/"+resumeID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("private resume status = %d, want 404", resp.Code)
	}

	// Publish it.
	body, contentType := updateForm(t, map[string]string{
		"resumeId":   resumeID,
		"resumeData": `{"title":"Shared","public":true}`,
	}, "", nil)
	reqPub := httptest.NewRequest(http.MethodPut, "/api/resume/update", body)
	reqPub.Header.Set("Content-Type", contentType)
	reqPub.Header.Set("Authorization", "Bearer "+token)
	respPub := httptest.NewRecorder()
	router.ServeHTTP(respPub, reqPub)
	if respPub.Code != http.StatusOK {
		t.Fatalf("publish status = %d", respPub.Code)
	}

	// Anonymous read now works.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/resume/public/"+resumeID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("public resume status = %d, body = %s", respGet.Code, respGet.Body.String())
	}
}

func TestResumeRoutesRequireAuth(t *testing.T) {
	app, _ := buildTestApp(t)
	router := app.Router

	req := httptest.NewRequest(http.MethodGet, "/api/resume/list", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Authorization header missing") {
		t.Fatalf("body = %s", resp.Body.String())
	}
}

func TestResumeDelete(t *testing.T) {
	app, _ := buildTestApp(t)
	router := app.Router
	token := registerUser(t, router, "owner@example.com")
	resumeID := createResume(t, router, token, "Doomed")

	req := httptest.NewRequest(http.MethodDelete, "/api/resume/delete/"+resumeID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete status = %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Resume Deleted Successfully.") {
		t.Fatalf("body = %s", resp.Body.String())
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/resume/get/"+resumeID, nil)
	reqGet.Header.Set("Authorization", "Bearer "+token)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", respGet.Code)
	}
}
