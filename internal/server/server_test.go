package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperifyio/proposalcheck/internal/audit"
	"github.com/hyperifyio/proposalcheck/internal/document"
	"github.com/hyperifyio/proposalcheck/internal/report"
)

type fakeChecker struct{ calls atomic.Int32 }

func (f *fakeChecker) Check(ctx context.Context, doc document.Document, source string) (audit.Result, report.Meta) {
	f.calls.Add(1)
	res := audit.Run(ctx, doc, audit.Options{})
	return res, report.NewMeta(source, doc, time.Now())
}

const proposalText = "הצעת מחקר\nשם הסטודנט: יונתן כהן\nמבוא\nטקסט מבוא ארוך מספיק כדי לעבור את סף האורך המינימלי של המסמך."

func newTestServer(t *testing.T, apiKey string) (*Server, *fakeChecker) {
	t.Helper()
	checker := &fakeChecker{}
	orch := NewOrchestrator(OrchestratorConfig{Workers: 1, JobTTL: time.Hour}, checker)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return New(orch, Config{APIKey: apiKey}), checker
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func submitText(t *testing.T, s *Server, text string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"text": text})
	req := httptest.NewRequest(http.MethodPost, "/v1/checks", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, s, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["poll_url"] != "/v1/checks/"+resp["job_id"].(string) {
		t.Fatalf("unexpected poll url %v", resp["poll_url"])
	}
	return resp["job_id"].(string)
}

func waitDone(t *testing.T, s *Server, id string) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, "/v1/checks/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status code %d", rec.Code)
		}
		var snap JobSnapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if snap.Status == StatusCompleted || snap.Status == StatusFailed {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return JobSnapshot{}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}
}

func TestSubmitTextAndFetchReport(t *testing.T) {
	s, checker := newTestServer(t, "")
	id := submitText(t, s, proposalText)
	snap := waitDone(t, s, id)
	if snap.Status != StatusCompleted || snap.Result == nil || snap.Approved == nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if checker.calls.Load() != 1 {
		t.Fatalf("checker calls = %d", checker.calls.Load())
	}

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/v1/checks/"+id+"/report", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# דוח בדיקת הצעת מחקר") {
		t.Fatalf("markdown report: %d %s", rec.Code, rec.Body)
	}
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/checks/"+id+"/report?format=xlsx", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("xlsx report: %d %v", rec.Code, rec.Header())
	}
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/checks/"+id+"/report?format=doc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: %d", rec.Code)
	}
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/v1/checks/"+id+"/report?format=pdf", nil))
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "pdf.font") {
		t.Fatalf("pdf without font: %d %s", rec.Code, rec.Body)
	}
}

func TestSubmitMultipartMarkdown(t *testing.T) {
	s, _ := newTestServer(t, "")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "../../proposal.md")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("# מבוא\n\n" + strings.Repeat("תוכן הפרק. ", 10)))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/checks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := do(t, s, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	snap := waitDone(t, s, resp["job_id"])
	if snap.Filename != "proposal.md" || snap.Status != StatusCompleted {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestSubmitRejectsUnsupportedUpload(t *testing.T) {
	s, _ := newTestServer(t, "")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "proposal.exe")
	_, _ = fw.Write([]byte("MZ"))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/v1/checks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if rec := do(t, s, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/checks", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	if rec := do(t, s, req); rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s, _ := newTestServer(t, "secret")
	req := httptest.NewRequest(http.MethodGet, "/v1/checks/unknown", nil)
	if rec := do(t, s, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/checks/unknown", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := do(t, s, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: %d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/checks/unknown", nil)
	req.Header.Set("Authorization", "Bearer secret")
	if rec := do(t, s, req); rec.Code != http.StatusNotFound {
		t.Fatalf("valid token on unknown job: %d", rec.Code)
	}
}

func TestReportBeforeCompletionConflicts(t *testing.T) {
	orch := NewOrchestrator(OrchestratorConfig{Workers: 1, QueueSize: 1}, &fakeChecker{})
	s := New(orch, Config{})
	job := NewJob("j1", "a.txt", []byte(proposalText))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/v1/checks/j1/report", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if err := orch.Submit(NewJob("j2", "b.txt", nil)); err == nil {
		t.Fatalf("a full queue must reject the job")
	}
	if snap := orch.GetJob("j2").Snapshot(); snap.Status != StatusFailed || snap.Error != "queue_full" {
		t.Fatalf("rejected job must be failed, got %+v", snap)
	}
}

func TestFailedExtractionMarksJob(t *testing.T) {
	checker := &fakeChecker{}
	orch := NewOrchestrator(OrchestratorConfig{Workers: 1}, checker)
	orch.Start(context.Background())
	defer orch.Stop()
	job := NewJob("bad", "broken.docx", []byte("not a zip"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for job.Snapshot().Status != StatusFailed {
		if time.Now().After(deadline) {
			t.Fatalf("job not failed: %+v", job.Snapshot())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.HasPrefix(job.Snapshot().Error, "extract:") || checker.calls.Load() != 0 {
		t.Fatalf("unexpected failure state %+v", job.Snapshot())
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(time.Minute)
	store.Put(NewJob("a", "a.txt", nil))
	if n := store.Cleanup(time.Now()); n != 0 || store.Len() != 1 {
		t.Fatalf("fresh job removed")
	}
	if n := store.Cleanup(time.Now().Add(2 * time.Minute)); n != 1 || store.Get("a") != nil {
		t.Fatalf("expired job kept")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"a..b.md":          "a_b.md",
		"":                 "unnamed",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q)=%q, want %q", in, got, want)
		}
	}
}
