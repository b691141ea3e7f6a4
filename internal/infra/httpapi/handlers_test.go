package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shift_notifier/internal/app"
	"shift_notifier/internal/domain/roster"
	idb "shift_notifier/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type stubTransport struct {
	failFor map[string]error
	sent    []string
}

func (tr *stubTransport) Send(_ context.Context, recipientID string, _ string) error {
	if err, ok := tr.failFor[recipientID]; ok {
		return err
	}
	tr.sent = append(tr.sent, recipientID)
	return nil
}

type testEnv struct {
	router        *gin.Engine
	employees     *idb.MemoryEmployeeRepository
	confirmations *idb.MemoryConfirmationRepository
	transport     *stubTransport
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	employees := idb.NewMemoryEmployeeRepository()
	confirmations := idb.NewMemoryConfirmationRepository()
	transport := &stubTransport{failFor: map[string]error{}}

	preview := app.NewPreviewService()
	dispatcher := app.NewDispatchService(employees, transport, log, 1, time.Second)
	confirmSvc := app.NewConfirmationService(employees, confirmations, log)
	handler := NewHandler(preview, dispatcher, confirmSvc, log)

	return &testEnv{
		router:        NewRouter(handler, gin.TestMode),
		employees:     employees,
		confirmations: confirmations,
		transport:     transport,
	}
}

func (env *testEnv) register(t *testing.T, recipientID, name string) {
	t.Helper()
	body := fmt.Sprintf(`{"events":[{"type":"message","source":{"userId":"%s"},"message":{"type":"text","text":"register %s"}}]}`, recipientID, name)
	w := env.do(t, http.MethodPost, "/webhook", []byte(body), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("webhook register failed: %d %s", w.Code, w.Body.String())
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func sendBody(rows ...roster.ShiftRow) []byte {
	b, _ := json.Marshal(map[string]any{"data": rows})
	return b
}

func testRow(name, id string) roster.ShiftRow {
	return roster.ShiftRow{
		EmployeeName: name,
		RecipientID:  id,
		ShiftDate:    "2024-01-01",
		StartTime:    "09:00",
		EndTime:      "17:00",
	}
}

func TestSendMessagesSuccessShape(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "U1", "Alice")

	w := env.do(t, http.MethodPost, "/send_messages", sendBody(testRow("Alice", "U1")), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Details struct {
			Successful int `json:"successful"`
			Skipped    int `json:"skipped"`
			Failed     int `json:"failed"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("expected success, got %q (%s)", resp.Status, resp.Message)
	}
	if resp.Details.Successful != 1 || resp.Details.Skipped != 0 || resp.Details.Failed != 0 {
		t.Fatalf("unexpected details: %+v", resp.Details)
	}
	if len(env.transport.sent) != 1 || env.transport.sent[0] != "U1" {
		t.Fatalf("unexpected transport calls: %v", env.transport.sent)
	}
}

func TestSendMessagesUnregisteredWarningShape(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/send_messages", sendBody(testRow("Alice", "U1")), "application/json")
	var resp struct {
		Status                string   `json:"status"`
		Warnings              []string `json:"warnings"`
		UnregisteredEmployees []string `json:"unregistered_employees"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "warning" {
		t.Fatalf("expected warning, got %q", resp.Status)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0] != "Alice" {
		t.Fatalf("unexpected warnings: %v", resp.Warnings)
	}
	if len(resp.UnregisteredEmployees) != 1 || resp.UnregisteredEmployees[0] != "Alice" {
		t.Fatalf("unexpected unregistered list: %v", resp.UnregisteredEmployees)
	}
}

func TestSendMessagesTransportFailureShape(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "U1", "Alice")
	env.transport.failFor["U1"] = fmt.Errorf("status 500")

	w := env.do(t, http.MethodPost, "/send_messages", sendBody(testRow("Alice", "U1")), "application/json")
	var resp struct {
		Status string   `json:"status"`
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "error" {
		t.Fatalf("expected error, got %q", resp.Status)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("expected one error entry, got %v", resp.Errors)
	}
}

func TestSendMessagesWithoutDataOrUpload(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/send_messages", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "error" {
		t.Fatalf("expected error status, got %v", resp)
	}
}

func uploadRoster(t *testing.T, env *testEnv, rows [][]string) *httptest.ResponseRecorder {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, cells := range rows {
		for j, cell := range cells {
			ref, _ := excelize.CoordinatesToCellName(j+1, i+1)
			_ = f.SetCellStr("Sheet1", ref, cell)
		}
	}
	var workbook bytes.Buffer
	if err := f.Write(&workbook); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "roster.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	return env.do(t, http.MethodPost, "/upload", body.Bytes(), mw.FormDataContentType())
}

func TestUploadThenSendFromBuffer(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "U1", "Alice")

	w := uploadRoster(t, env, [][]string{
		{"employee_name", "line_user_id", "shift_date", "start_time", "end_time"},
		{"Alice", "U1", "2024-01-01", "09:00", "17:00"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", w.Code, w.Body.String())
	}
	var uploadResp struct {
		Status string            `json:"status"`
		Data   []roster.ShiftRow `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploadResp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploadResp.Status != "success" || len(uploadResp.Data) != 1 {
		t.Fatalf("unexpected upload response: %s", w.Body.String())
	}

	// No body: the staged buffer is the batch.
	w = env.do(t, http.MethodPost, "/send_messages", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("send failed: %d %s", w.Code, w.Body.String())
	}
	if len(env.transport.sent) != 1 {
		t.Fatalf("expected one send from the staged buffer, got %v", env.transport.sent)
	}

	// A clean batch clears the buffer.
	w = env.do(t, http.MethodPost, "/send_messages", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("buffer should be cleared after success, got %d", w.Code)
	}
}

func TestBufferSurvivesFailedBatchForRetry(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "U1", "Alice")
	env.transport.failFor["U1"] = fmt.Errorf("boom")

	w := uploadRoster(t, env, [][]string{
		{"employee_name", "line_user_id", "shift_date", "start_time", "end_time"},
		{"Alice", "U1", "2024-01-01", "09:00", "17:00"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", w.Code)
	}

	if w = env.do(t, http.MethodPost, "/send_messages", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("send failed: %d", w.Code)
	}

	// Transport recovers; the staged rows must still be there to retry.
	delete(env.transport.failFor, "U1")
	w = env.do(t, http.MethodPost, "/send_messages", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("retry send failed: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "success" {
		t.Fatalf("expected retry to succeed, got %q", resp.Status)
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	env := newTestEnv(t)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "roster.csv")
	_, _ = part.Write([]byte("employee_name\n"))
	mw.Close()

	w := env.do(t, http.MethodPost, "/upload", body.Bytes(), mw.FormDataContentType())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a csv upload, got %d", w.Code)
	}
}

func TestClearDataLeavesConfirmations(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "U1", "Alice")

	confirm := `{"events":[{"type":"message","source":{"userId":"U1"},"message":{"type":"text","text":"confirm"}}]}`
	if w := env.do(t, http.MethodPost, "/webhook", []byte(confirm), "application/json"); w.Code != http.StatusOK {
		t.Fatalf("webhook confirm failed: %d", w.Code)
	}

	if w := env.do(t, http.MethodPost, "/clear_data", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("clear_data failed: %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/confirmations", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list confirmations failed: %d", w.Code)
	}
	var confirmations []struct {
		EmployeeName string `json:"employee_name"`
		WeekStart    string `json:"week_start"`
		Status       string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &confirmations); err != nil {
		t.Fatalf("decode confirmations: %v", err)
	}
	if len(confirmations) != 1 || confirmations[0].EmployeeName != "Alice" {
		t.Fatalf("clearing the roster buffer must not clear confirmations: %+v", confirmations)
	}
	if confirmations[0].Status != "confirmed" {
		t.Fatalf("unexpected status: %+v", confirmations[0])
	}
}

func TestClearConfirmationsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "U1", "Alice")
	confirm := `{"events":[{"type":"message","source":{"userId":"U1"},"message":{"type":"text","text":"yes"}}]}`
	env.do(t, http.MethodPost, "/webhook", []byte(confirm), "application/json")

	if w := env.do(t, http.MethodPost, "/api/confirmations/clear", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("clear confirmations failed: %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/confirmations", nil, "")
	var confirmations []json.RawMessage
	_ = json.Unmarshal(w.Body.Bytes(), &confirmations)
	if len(confirmations) != 0 {
		t.Fatalf("expected empty confirmation list, got %s", w.Body.String())
	}
}

func TestWebhookIgnoresNonMessageEvents(t *testing.T) {
	env := newTestEnv(t)
	body := `{"events":[{"type":"follow","source":{"userId":"U1"}}]}`
	w := env.do(t, http.MethodPost, "/webhook", []byte(body), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("webhook should acknowledge non-message events: %d", w.Code)
	}
}
