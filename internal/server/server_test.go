package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"adflow/internal/logging"
	"adflow/internal/server"
	"adflow/internal/store"
	"adflow/internal/testsupport"
)

func newTestServer(t *testing.T) (*server.Server, *store.Store) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return server.New(cfg, st, nil, logging.NewNop()), st
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestScriptLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "Glow Serum",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var product struct {
		ID string `json:"id"`
	}
	decodeResponse(t, rec, &product)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/icps", map[string]any{
		"name": "Skincare enthusiasts",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create icp: expected 201, got %d", rec.Code)
	}
	var icp struct {
		ID string `json:"id"`
	}
	decodeResponse(t, rec, &icp)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/concepts", map[string]any{
		"productId": product.ID,
		"icpId":     icp.ID,
		"title":     "Morning routine hook",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create concept: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var concept struct {
		ID string `json:"id"`
	}
	decodeResponse(t, rec, &concept)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/scripts", map[string]any{
		"conceptId":    concept.ID,
		"duration":     30,
		"aspectRatios": []string{"9:16", "1:1"},
		"content":      map[string]any{"hook": "Wait for it"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create script: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var script struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeResponse(t, rec, &script)
	if script.Status != "DRAFT" {
		t.Fatalf("expected DRAFT, got %s", script.Status)
	}

	rec = doJSON(t, handler, http.MethodPatch, "/api/v1/scripts/"+script.ID, map[string]any{
		"status": "APPROVED",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var approved struct {
		Status     string  `json:"status"`
		ApprovedAt *string `json:"approvedAt"`
	}
	decodeResponse(t, rec, &approved)
	if approved.Status != "IN_PRODUCTION" {
		t.Fatalf("expected IN_PRODUCTION after approval, got %s", approved.Status)
	}
	if approved.ApprovedAt == nil {
		t.Fatal("expected approvedAt to be stamped")
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/scripts/"+script.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get script: expected 200, got %d", rec.Code)
	}
	var detail struct {
		Tasks []struct {
			Type           string `json:"type"`
			Status         string `json:"status"`
			StageUnblocked bool   `json:"stageUnblocked"`
		} `json:"tasks"`
		CurrentStage string `json:"currentStage"`
	}
	decodeResponse(t, rec, &detail)
	if len(detail.Tasks) != 4 {
		t.Fatalf("expected 4 generated tasks, got %d", len(detail.Tasks))
	}
	if detail.CurrentStage != "FILMING" {
		t.Fatalf("expected current stage FILMING, got %s", detail.CurrentStage)
	}
	for _, task := range detail.Tasks {
		wantUnblocked := task.Type == "FILMING"
		if task.StageUnblocked != wantUnblocked {
			t.Fatalf("task %s: stageUnblocked = %v", task.Type, task.StageUnblocked)
		}
	}
}

func TestScriptContentImmutableAfterApproval(t *testing.T) {
	srv, st := newTestServer(t)
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	rec := doJSON(t, srv.Handler(), http.MethodPatch, "/api/v1/scripts/"+script.ID, map[string]any{
		"content": map[string]any{"hook": "rewrite"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTaskTransitionsOverHTTP(t *testing.T) {
	srv, st := newTestServer(t)
	handler := srv.Handler()
	script := testsupport.SeedScript(t, st, store.ScriptStatusInProduction)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/tasks", map[string]any{
		"type":          "FILMING",
		"scriptId":      script.ID,
		"estimatedTime": 2.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var task struct {
		ID string `json:"id"`
	}
	decodeResponse(t, rec, &task)

	rec = doJSON(t, handler, http.MethodPatch, "/api/v1/tasks/"+task.ID, map[string]any{
		"status": "COMPLETED",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("QUEUED to COMPLETED should be 400, got %d", rec.Code)
	}

	for _, status := range []string{"IN_PROGRESS", "COMPLETED"} {
		rec = doJSON(t, handler, http.MethodPatch, "/api/v1/tasks/"+task.ID, map[string]any{
			"status": status,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("move to %s: expected 200, got %d: %s", status, rec.Code, rec.Body.String())
		}
	}

	var updated struct {
		Status      string  `json:"status"`
		CompletedAt *string `json:"completedAt"`
	}
	decodeResponse(t, rec, &updated)
	if updated.Status != "COMPLETED" || updated.CompletedAt == nil {
		t.Fatalf("expected completed with stamp, got %+v", updated)
	}
}

func TestListTasksFilterValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/tasks?status=BOGUS", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDuplicateEmailConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	body := map[string]any{"email": "ana@example.com", "name": "Ana"}
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/team-members", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create member: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/team-members", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rec.Code)
	}
}

func TestUnknownIDsReturn404(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	for _, path := range []string{
		"/api/v1/scripts/missing",
		"/api/v1/tasks/missing",
		"/api/v1/team-members/missing",
		"/api/v1/products/missing",
	} {
		rec := doJSON(t, handler, http.MethodGet, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestIdeationRejectedWithoutLLM(t *testing.T) {
	srv, st := newTestServer(t)
	concept := testsupport.SeedConcept(t, st)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/ideation/concepts", map[string]any{
		"productId": concept.ProductID,
		"icpId":     concept.ICPID,
		"count":     3,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when llm unconfigured, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvalidJSONBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestScriptVersionOverHTTP(t *testing.T) {
	srv, st := newTestServer(t)
	handler := srv.Handler()
	script := testsupport.SeedScript(t, st, store.ScriptStatusApproved)

	rec := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/scripts/%s/versions", script.ID), map[string]any{
		"content": map[string]any{"hook": "take two"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create version: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var next struct {
		ID       string `json:"id"`
		Version  int    `json:"version"`
		Status   string `json:"status"`
		ParentID string `json:"parentId"`
	}
	decodeResponse(t, rec, &next)
	if next.Version != 2 || next.Status != "DRAFT" || next.ParentID != script.ID {
		t.Fatalf("unexpected version payload %+v", next)
	}
}
