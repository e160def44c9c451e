package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/concierge-chat/concierge/internal/composer"
	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/session"
	"github.com/concierge-chat/concierge/pkg/chat"
)

func getJSON(t *testing.T, handler http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAdmin_RequiresAuth(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)

	paths := []string{"/api/knowledge/", "/api/knowledge/stats", "/api/sessions"}
	for _, path := range paths {
		if rec := getJSON(t, handler, path, nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without auth = %d, want 401", path, rec.Code)
		}
		bad := map[string]string{"Authorization": "Bearer wrong"}
		if rec := getJSON(t, handler, path, bad); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with a bad token = %d, want 401", path, rec.Code)
		}
	}
}

func TestAdmin_KnowledgeCRUD(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)

	// Create.
	rec := postJSON(t, handler, "/api/knowledge/", knowledge.NewEntry{
		Category: knowledge.CategoryProduct,
		Question: "What does the pro plan cost",
		Answer:   "Twenty dollars per month.",
		Keywords: []string{"pricing", "pro"},
	}, authHeader())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created knowledge.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created entry has no id")
	}

	// Read back.
	rec = getJSON(t, handler, "/api/knowledge/"+created.ID, authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	// Patch the answer only.
	patch, _ := json.Marshal(map[string]string{"answer": "Twenty-five dollars per month."})
	req := httptest.NewRequest(http.MethodPatch, "/api/knowledge/"+created.ID, bytes.NewReader(patch))
	req.Header.Set("Authorization", "Bearer "+testToken)
	patchRec := httptest.NewRecorder()
	handler.ServeHTTP(patchRec, req)
	if patchRec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200: %s", patchRec.Code, patchRec.Body.String())
	}
	var patched knowledge.Entry
	if err := json.Unmarshal(patchRec.Body.Bytes(), &patched); err != nil {
		t.Fatal(err)
	}
	if patched.Answer != "Twenty-five dollars per month." {
		t.Errorf("Answer = %q, want the patched value", patched.Answer)
	}
	if patched.Question != created.Question {
		t.Errorf("Question changed by an answer-only patch: %q", patched.Question)
	}

	// Delete.
	del := httptest.NewRequest(http.MethodDelete, "/api/knowledge/"+created.ID, nil)
	del.Header.Set("Authorization", "Bearer "+testToken)
	delRec := httptest.NewRecorder()
	handler.ServeHTTP(delRec, del)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", delRec.Code)
	}

	if rec := getJSON(t, handler, "/api/knowledge/"+created.ID, authHeader()); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestAdmin_KnowledgeNotFound(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)

	if rec := getJSON(t, handler, "/api/knowledge/nope", authHeader()); rec.Code != http.StatusNotFound {
		t.Errorf("get = %d, want 404", rec.Code)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/knowledge/nope", nil)
	del.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, del)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete = %d, want 404", rec.Code)
	}
}

func TestAdmin_Search(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)

	rec := getJSON(t, handler, "/api/knowledge/search?q=reset+password", authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var results []knowledge.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Entry.Question != "How do I reset my password" {
		t.Errorf("unexpected top result: %q", results[0].Entry.Question)
	}

	if rec := getJSON(t, handler, "/api/knowledge/search", authHeader()); rec.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", rec.Code)
	}
	if rec := getJSON(t, handler, "/api/knowledge/search?q=x&limit=0", authHeader()); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 = %d, want 400", rec.Code)
	}
	if rec := getJSON(t, handler, "/api/knowledge/search?q=x&category=bogus", authHeader()); rec.Code != http.StatusBadRequest {
		t.Errorf("bad category = %d, want 400", rec.Code)
	}
}

func TestAdmin_ImportExport(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)

	rec := postJSON(t, handler, "/api/knowledge/import", []knowledge.NewEntry{
		{Category: knowledge.CategoryFAQ, Question: "Q1", Answer: "A1"},
		{Category: knowledge.Category("bogus"), Question: "Q2", Answer: "A2"},
	}, authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var report knowledge.ImportReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Imported != 1 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 1 imported / 1 skipped", report)
	}

	exp := getJSON(t, handler, "/api/knowledge/export", authHeader())
	var exported []knowledge.NewEntry
	if err := json.Unmarshal(exp.Body.Bytes(), &exported); err != nil {
		t.Fatal(err)
	}
	// The seed entry plus the imported one.
	if len(exported) != 2 {
		t.Errorf("exported = %d entries, want 2", len(exported))
	}
}

func TestAdmin_Sessions(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)

	turn := postJSON(t, handler, "/chat", TurnRequest{
		Message:        "hello",
		Classification: ClassificationPayload{Intent: "general"},
		Draft:          &DraftPayload{Content: "Hi."},
	}, nil)
	var resp TurnResponse
	if err := json.Unmarshal(turn.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	rec := getJSON(t, handler, "/api/sessions", authHeader())
	var summaries []sessionSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].ID != resp.SessionID {
		t.Fatalf("summaries = %+v, want the one chat session", summaries)
	}
	if summaries[0].Messages != 2 {
		t.Errorf("messages = %d, want 2", summaries[0].Messages)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+resp.SessionID, nil)
	del.Header.Set("Authorization", "Bearer "+testToken)
	delRec := httptest.NewRecorder()
	handler.ServeHTTP(delRec, del)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", delRec.Code)
	}

	if rec := getJSON(t, handler, "/api/sessions", authHeader()); rec.Body.String() == "" {
		t.Error("list after delete should still return a JSON array")
	}
}

// recordingTranscripts is an in-memory TranscriptStore for gateway tests.
type recordingTranscripts struct {
	msgs map[string][]chat.Message
}

func (r *recordingTranscripts) Append(sessionID string, msg chat.Message) error {
	if r.msgs == nil {
		r.msgs = make(map[string][]chat.Message)
	}
	r.msgs[sessionID] = append(r.msgs[sessionID], msg)
	return nil
}

func (r *recordingTranscripts) Recent(sessionID string, n int) ([]chat.Message, error) {
	msgs := r.msgs[sessionID]
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs, nil
}

func (r *recordingTranscripts) Purge(sessionID string) error {
	delete(r.msgs, sessionID)
	return nil
}

func TestAdmin_SessionTranscript(t *testing.T) {
	t.Parallel()

	store := knowledge.NewStore()
	transcripts := &recordingTranscripts{}
	g := New(testConfig(), nil, Deps{
		Store:       store,
		Searcher:    knowledge.NewSearcher(store),
		Composer:    composer.New(composer.Options{}),
		Sessions:    session.NewInMemoryStore(),
		Transcripts: transcripts,
	})
	handler := g.buildRouter()

	turn := postJSON(t, handler, "/chat", TurnRequest{
		Message:        "hello",
		Classification: ClassificationPayload{Intent: "general"},
		Draft:          &DraftPayload{Content: "Hi."},
	}, nil)
	var resp TurnResponse
	if err := json.Unmarshal(turn.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	rec := getJSON(t, handler, "/api/sessions/"+resp.SessionID+"/transcript", authHeader())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var msgs []chat.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("transcript = %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != chat.RoleUser || msgs[1].Role != chat.RoleAssistant {
		t.Errorf("roles = %q, %q, want user then assistant", msgs[0].Role, msgs[1].Role)
	}
}

func TestAdmin_SessionTranscriptDisabled(t *testing.T) {
	t.Parallel()

	_, handler := newTestGateway(t)
	if rec := getJSON(t, handler, "/api/sessions/whatever/transcript", authHeader()); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when persistence is off", rec.Code)
	}
}
