package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"sichat/api"
)

// Reply is a canned response for one endpoint
type Reply struct {
	Status int
	Body   string
}

// Request is a request the fake backend received
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]any
	// APIKey is the decrypted api_key of the payload, empty if none was sent
	APIKey string
	Header http.Header
}

// Backend is an in-memory chatbot backend for client tests. Endpoints not
// listed in Replies get a sensible default answer.
type Backend struct {
	Server  *httptest.Server
	Replies map[string]Reply

	mu       sync.Mutex
	requests []Request
	cipher   *api.KeyCipher
	// ValidKeys maps tenant ID to the API key the validation endpoint accepts
	ValidKeys map[string]string
}

// NewBackend starts a fake backend that is closed with the test
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	cipher, err := api.NewKeyCipher(SecretKey)
	if err != nil {
		t.Fatalf("NewKeyCipher() error = %v", err)
	}
	b := &Backend{
		Replies:   map[string]Reply{},
		cipher:    cipher,
		ValidKeys: map[string]string{TestSession().TenantID: TestSession().APIKey},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.Server.Close)
	return b
}

// Options returns client options pointing at the fake backend
func (b *Backend) Options() api.Options {
	return api.Options{
		BaseURL:          b.Server.URL,
		KeyValidationURL: b.Server.URL + "/restapi/v1",
		SecretKey:        SecretKey,
	}
}

// Requests returns the requests received so far
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Last returns the most recent request to the endpoint, or false
func (b *Backend) Last(endpoint string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if strings.HasSuffix(reqs[i].Path, "/"+endpoint) {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	rec := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string]string{},
		Header: r.Header.Clone(),
	}
	for k := range r.URL.Query() {
		rec.Query[k] = r.URL.Query().Get(k)
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	if enc, ok := rec.Body["api_key"].(string); ok && enc != "" {
		rec.APIKey, _ = b.cipher.Decrypt(enc)
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	b.mu.Unlock()

	endpoint := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	if reply, ok := b.Replies[endpoint]; ok {
		writeReply(w, reply.Status, reply.Body)
		return
	}

	switch endpoint {
	case "login":
		if rec.APIKey != TestSession().APIKey {
			writeReply(w, http.StatusUnauthorized, `{"detail":{"message":"Invalid credentials"}}`)
			return
		}
		writeReply(w, http.StatusOK, `{"message":"User logged in successfully!","user_data":{"username":"`+
			str(rec.Body["username"])+`","tenant_id":"`+str(rec.Body["tenant_id"])+`"}}`)
	case "logout":
		writeReply(w, http.StatusOK, `{"message":"logged out","status":"SUCCESS"}`)
	case "run_chatbot":
		writeReply(w, http.StatusOK, string(QueryResponse(conversationOr(rec.Body, "c-new"))))
	case "morning_cup_of_coffee":
		writeReply(w, http.StatusOK, string(CoffeeResponse(conversationOr(rec.Body, "c-new"))))
	case "previous_actions":
		writeReply(w, http.StatusOK, string(PreviousActionsResponse()))
	case "execute_action":
		writeReply(w, http.StatusOK, `{"intent":"storage-system-details","identifier":"grid","data":`+GridRows+`}`)
	case "get_user_conversation_list":
		data, _ := json.Marshal(TestConversations())
		writeReply(w, http.StatusOK, string(data))
	case "get_conversation_history":
		writeReply(w, http.StatusOK, string(HistoryJSON()))
	case "rename_conversation_title":
		writeReply(w, http.StatusOK, `1`)
	case "delete_conversations":
		writeReply(w, http.StatusOK, `{"message":"Deleted conversations"}`)
	case "token":
		tenant := tenantFromPath(r.URL.Path)
		if key, ok := b.ValidKeys[tenant]; ok && key == r.Header.Get("x-api-key") {
			writeReply(w, http.StatusCreated, `{"result":{"token":"t"}}`)
			return
		}
		writeReply(w, http.StatusUnauthorized, `{"detail":"bad key"}`)
	default:
		writeReply(w, http.StatusNotFound, `{"detail":"Not Found"}`)
	}
}

func writeReply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusNoContent {
		_, _ = io.WriteString(w, body)
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func conversationOr(body map[string]any, fallback string) string {
	if id := str(body["conversation_id"]); id != "" {
		return id
	}
	return fallback
}

// tenantFromPath extracts {id} from .../tenants/{id}/token
func tenantFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "tenants" {
			return parts[i+1]
		}
	}
	return ""
}
