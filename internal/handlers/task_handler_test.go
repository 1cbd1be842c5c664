package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tasksource/internal/models"
	"tasksource/internal/pdf"
	"tasksource/internal/repositories"
	"tasksource/internal/services"
)

type fakeReader struct {
	tasks []models.Task
	err   error
	calls int
}

func (f *fakeReader) FetchAll(context.Context) ([]models.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

var testNow = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

func newTestRouter(reader repositories.TaskReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return testNow }
	h := NewTaskHandler(services.NewTaskService(reader, clock), pdf.NewTaskReportGenerator("", ""), 10, 100)
	h.now = clock

	r := gin.New()
	r.GET("/users/seed", h.SeedUsers)
	r.GET("/tasks", h.FetchAll)
	r.GET("/tasks/generate", h.Generate)
	r.GET("/tasks/report.pdf", h.Report)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeTasks(t *testing.T, w *httptest.ResponseRecorder) []models.Task {
	t.Helper()
	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return tasks
}

func TestGenerateEndpoint(t *testing.T) {
	r := newTestRouter(nil)

	w := get(r, "/tasks/generate?count=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	tasks := decodeTasks(t, w)
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	today := models.DateOf(testNow)
	for i, task := range tasks {
		if task.DueDate != today.AddDays(i) || task.Priority != i {
			t.Errorf("task %d has unexpected shape: %+v", i, task)
		}
		if task.AssignedTo != nil {
			t.Errorf("task %d should not be assigned", i)
		}
	}
}

func TestGenerateEndpointDefaultsAndSeed(t *testing.T) {
	r := newTestRouter(nil)

	if n := len(decodeTasks(t, get(r, "/tasks/generate"))); n != 10 {
		t.Errorf("expected default count 10, got %d", n)
	}

	a := get(r, "/tasks/generate?count=20&seed=99").Body.String()
	b := get(r, "/tasks/generate?count=20&seed=99").Body.String()
	if a != b {
		t.Errorf("seeded generation should be reproducible")
	}
}

func TestGenerateEndpointAssign(t *testing.T) {
	r := newTestRouter(nil)
	tasks := decodeTasks(t, get(r, "/tasks/generate?count=25&assign=true"))
	for i, task := range tasks {
		if task.AssignedTo == nil || *task.AssignedTo < 1 || *task.AssignedTo > 3 {
			t.Errorf("task %d assigned to invalid user %v", i, task.AssignedTo)
		}
		if want := fmt.Sprintf("Task %d", i+1); task.Title != want {
			t.Errorf("task %d title %q, want %q", i, task.Title, want)
		}
	}
}

func TestGenerateEndpointAssignAcceptsBoolForms(t *testing.T) {
	r := newTestRouter(nil)
	for _, q := range []string{"assign=1", "assign=TRUE", "assign=t"} {
		tasks := decodeTasks(t, get(r, "/tasks/generate?count=2&"+q))
		for i, task := range tasks {
			if task.AssignedTo == nil {
				t.Errorf("%s: task %d not assigned", q, i)
			}
		}
	}
	for _, task := range decodeTasks(t, get(r, "/tasks/generate?count=2&assign=0")) {
		if task.AssignedTo != nil || task.Title != "" {
			t.Errorf("assign=0: expected unassigned task, got %+v", task)
		}
	}
}

func TestGenerateEndpointRejectsBadCount(t *testing.T) {
	r := newTestRouter(nil)
	for _, q := range []string{"count=-1", "count=abc", "count=101", "seed=-4", "assign=yes", "assign=2"} {
		if w := get(r, "/tasks/generate?"+q); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestSeedUsersEndpoint(t *testing.T) {
	r := newTestRouter(nil)
	w := get(r, "/users/seed")
	var users []models.User
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 3 || users[0].Username != "john_doe" {
		t.Errorf("unexpected seed users: %+v", users)
	}
}

func TestFetchAllEndpoint(t *testing.T) {
	id := int64(1)
	reader := &fakeReader{tasks: []models.Task{
		{ID: &id, Title: "a", Description: "Running", DueDate: models.DateOf(testNow), Status: models.StatusPending},
	}}
	r := newTestRouter(reader)

	w := get(r, "/tasks")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	tasks := decodeTasks(t, w)
	if len(tasks) != 1 || tasks[0].ID == nil || *tasks[0].ID != 1 {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestFetchAllEndpointErrorKinds(t *testing.T) {
	cases := []struct {
		kind error
		code int
		name string
	}{
		{repositories.ErrConnection, http.StatusServiceUnavailable, "connection"},
		{repositories.ErrQuery, http.StatusBadGateway, "query"},
		{repositories.ErrMapping, http.StatusBadGateway, "mapping"},
		{repositories.ErrConfiguration, http.StatusInternalServerError, "configuration"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		err := &repositories.ReadError{Kind: tc.kind, Op: "test", Err: errors.New("cause")}
		r := newTestRouter(&fakeReader{err: err})
		w := get(r, "/tasks")
		if w.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.code, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["kind"] != tc.name {
			t.Errorf("expected kind %q, got %q", tc.name, body["kind"])
		}
	}
}

func TestFetchAllEndpointWithoutDatabase(t *testing.T) {
	r := newTestRouter(nil)
	if w := get(r, "/tasks"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	reader := &fakeReader{}
	r := newTestRouter(reader)

	w := get(r, "/tasks/report.pdf?count=4")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("body is not a PDF")
	}

	if w := get(r, "/tasks/report.pdf?source=db"); w.Code != http.StatusOK {
		t.Errorf("db report: expected 200, got %d", w.Code)
	}
	if reader.calls != 1 {
		t.Errorf("expected one reader call, got %d", reader.calls)
	}

	if w := get(r, "/tasks/report.pdf?source=ftp"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown source, got %d", w.Code)
	}
}

func TestReportEndpointNeedsFontForNonLatinText(t *testing.T) {
	id := int64(1)
	reader := &fakeReader{tasks: []models.Task{
		{ID: &id, Title: "Отчёт", Description: "Бег", DueDate: models.DateOf(testNow), Status: models.StatusPending},
	}}
	r := newTestRouter(reader)

	w := get(r, "/tasks/report.pdf?source=db")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != pdf.ErrFontRequired.Error() {
		t.Errorf("unexpected error %q", body["error"])
	}
}
