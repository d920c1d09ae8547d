package server

import (
	"bytes"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"kastelo.dev/internlog"
	"kastelo.dev/internlog/excel"
	"kastelo.dev/internlog/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T, mod func(*config.Config)) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Listen:         ":0",
		Env:            "development",
		MaxUploadBytes: internlog.MaxUploadSize,
	}
	if mod != nil {
		mod(cfg)
	}
	return New(cfg, zap.NewNop()).Handler()
}

func templateBytes(t *testing.T) []byte {
	t.Helper()
	data, err := excel.TemplateXLSX()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// withoutStudentName returns the template with the student name cleared.
func withoutStudentName(t *testing.T) []byte {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(templateBytes(t)))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(excel.StudentSheet, "B4", ""); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestIndexAndHealth(t *testing.T) {
	h := testServer(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("index status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/template"`) || !strings.Contains(rec.Body.String(), `name="file"`) {
		t.Errorf("index page missing template link or file input:\n%s", rec.Body.String())
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("no request id header")
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Errorf("health %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	h := testServer(t, nil)
	const id = "0b5a4e0c-32cb-4b6e-9f5e-2c1f1d2a6f11"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	if got := serve(h, req).Header().Get(requestIDHeader); got != id {
		t.Errorf("request id %q, expected %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not a uuid")
	if got := serve(h, req).Header().Get(requestIDHeader); got == "not a uuid" {
		t.Error("invalid request id was echoed")
	}
}

func TestTemplateDownload(t *testing.T) {
	rec := serve(testServer(t, nil), httptest.NewRequest(http.MethodGet, "/template", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxType {
		t.Errorf("content type %q", ct)
	}
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatal(err)
	}
	if params["filename"] != internlog.TemplateFilename {
		t.Errorf("filename %q", params["filename"])
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK\x03\x04")) {
		t.Error("body is not an xlsx file")
	}
}

func TestGenerate(t *testing.T) {
	h := testServer(t, nil)

	rec := serve(h, uploadRequest(t, "/generate", "logs.xlsx", templateBytes(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != pdfType {
		t.Errorf("content type %q", ct)
	}
	if pc := rec.Header().Get("X-Page-Count"); pc != "2" {
		t.Errorf("page count %q", pc)
	}
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatal(err)
	}
	if params["filename"] != "Internship_Logs_John_Doe.pdf" {
		t.Errorf("filename %q", params["filename"])
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestGenerateErrors(t *testing.T) {
	small := func(cfg *config.Config) { cfg.MaxUploadBytes = 1024 }

	cases := []struct {
		name     string
		mod      func(*config.Config)
		req      func(t *testing.T) *http.Request
		status   int
		errorMsg string
		details  int
	}{
		{
			name: "no file",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(""))
			},
			status:   http.StatusBadRequest,
			errorMsg: "Please upload a valid Excel file (.xlsx or .xls)",
		},
		{
			name: "wrong type",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/generate", "notes.txt", []byte("hello"))
			},
			status:   http.StatusBadRequest,
			errorMsg: "Please upload a valid Excel file (.xlsx or .xls)",
		},
		{
			name: "too large",
			mod:  small,
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/generate", "logs.xlsx", bytes.Repeat([]byte{'x'}, 2048))
			},
			status:   http.StatusBadRequest,
			errorMsg: "File size must be less than 1024 bytes",
		},
		{
			name: "garbage",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/generate", "logs.xlsx", []byte("this is not a spreadsheet"))
			},
			status:   http.StatusUnprocessableEntity,
			errorMsg: "Failed to parse Excel file. Please ensure it matches the template format.",
		},
		{
			name: "invalid content",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/generate", "logs.xlsx", withoutStudentName(t))
			},
			status:   http.StatusUnprocessableEntity,
			errorMsg: "Validation Errors",
			details:  1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(testServer(t, tc.mod), tc.req(t))
			if rec.Code != tc.status {
				t.Fatalf("status %d, expected %d: %s", rec.Code, tc.status, rec.Body.String())
			}
			res := decode(t, rec)
			if res["error"] != tc.errorMsg {
				t.Errorf("error %q, expected %q", res["error"], tc.errorMsg)
			}
			if tc.details > 0 {
				details, _ := res["details"].([]any)
				if len(details) != tc.details || details[0] != "Student Name is required" {
					t.Errorf("details %v", res["details"])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	h := testServer(t, nil)

	rec := serve(h, uploadRequest(t, "/validate", "logs.xlsx", templateBytes(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res := decode(t, rec)
	if res["valid"] != true || res["entries"] != float64(2) {
		t.Errorf("result %v", res)
	}
	if errs, ok := res["errors"].([]any); !ok || len(errs) != 0 {
		t.Errorf("errors %v", res["errors"])
	}

	rec = serve(h, uploadRequest(t, "/validate", "logs.xlsx", withoutStudentName(t)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res = decode(t, rec)
	if res["valid"] != false {
		t.Errorf("result %v", res)
	}
	if errs, _ := res["errors"].([]any); len(errs) != 1 || errs[0] != "Student Name is required" {
		t.Errorf("errors %v", res["errors"])
	}
}

func TestRateLimit(t *testing.T) {
	h := testServer(t, func(cfg *config.Config) { cfg.RatePerMinute = 2 })

	for i := 0; i < 2; i++ {
		rec := serve(h, uploadRequest(t, "/validate", "logs.xlsx", templateBytes(t)))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := serve(h, uploadRequest(t, "/validate", "logs.xlsx", templateBytes(t)))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status %d, expected %d", rec.Code, http.StatusTooManyRequests)
	}

	// Downloads are not limited.
	if rec := serve(h, httptest.NewRequest(http.MethodGet, "/template", nil)); rec.Code != http.StatusOK {
		t.Errorf("template status %d", rec.Code)
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := newLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.allow("10.0.0.1") {
			t.Fatal("disabled limiter refused a request")
		}
	}
}

func TestLimiterEviction(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newLimiter(1)
	l.now = func() time.Time { return now }

	if !l.allow("10.0.0.1") {
		t.Fatal("first request refused")
	}
	if l.allow("10.0.0.1") {
		t.Fatal("second request allowed")
	}

	now = now.Add(limiterIdle / 2)
	if !l.allow("10.0.0.2") {
		t.Fatal("new client refused")
	}
	if len(l.clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(l.clients))
	}

	// The first client has been idle long enough, the second has not.
	now = now.Add(limiterIdle/2 + time.Minute)
	if !l.allow("10.0.0.3") {
		t.Fatal("new client refused")
	}
	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Error("idle client not evicted")
	}
	if _, ok := l.clients["10.0.0.2"]; !ok {
		t.Error("recent client evicted")
	}
	if len(l.clients) != 2 {
		t.Errorf("expected 2 clients, got %d", len(l.clients))
	}
}
