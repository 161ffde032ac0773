package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeAPI behaves like the posts backend: numeric ids, zone-less timestamps
// and {"message": ...} error bodies.
type fakeAPI struct {
	mu       sync.Mutex
	posts    map[int]apiPost
	nextID   int
	calls    []string
	failures map[string]fakeFailure
}

type apiPost struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type fakeFailure struct {
	status int
	body   string
}

const fakeTimeLayout = "2006-01-02T15:04:05"

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		posts:    map[int]apiPost{},
		nextID:   1,
		failures: map[string]fakeFailure{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", api.list)
	mux.HandleFunc("GET /api/posts/{id}", api.get)
	mux.HandleFunc("POST /api/posts", api.create)
	mux.HandleFunc("PUT /api/posts/{id}", api.update)
	mux.HandleFunc("DELETE /api/posts/{id}", api.remove)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.calls = append(api.calls, r.Method+" "+r.URL.EscapedPath())
		failure, failing := api.failures[r.Method]
		api.mu.Unlock()

		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(failure.status)
			io.WriteString(w, failure.body)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return api, srv
}

// seed stores a post as if it had been created at createdAt.
func (a *fakeAPI) seed(title, content, author string, createdAt time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	ts := createdAt.Format(fakeTimeLayout)
	a.posts[id] = apiPost{ID: id, Title: title, Content: content, Author: author, CreatedAt: ts, UpdatedAt: ts}
	return id
}

// setCreatedAt overwrites a stored post's createdAt with raw, as sent.
func (a *fakeAPI) setCreatedAt(id int, raw string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.posts[id]
	p.CreatedAt = raw
	a.posts[id] = p
}

func (a *fakeAPI) fail(method string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method] = fakeFailure{status: status, body: body}
}

func (a *fakeAPI) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *fakeAPI) count(method string) int {
	n := 0
	for _, c := range a.recorded() {
		if len(c) > len(method) && c[:len(method)+1] == method+" " {
			n++
		}
	}
	return n
}

func (a *fakeAPI) post(id int) (apiPost, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.posts[id]
	return p, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"message": fmt.Sprintf("Blog post not found with id: %s", id),
	})
}

func (a *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	posts := make([]apiPost, 0, len(a.posts))
	for _, p := range a.posts {
		posts = append(posts, p)
	}
	a.mu.Unlock()

	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	writeJSON(w, http.StatusOK, posts)
}

func (a *fakeAPI) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	p, ok := a.post(id)
	if err != nil || !ok {
		notFound(w, r.PathValue("id"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (PostInput, bool) {
	var in PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Malformed JSON request"})
		return in, false
	}
	if in.Title == "" || in.Content == "" || in.Author == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Title, content and author are required"})
		return in, false
	}
	return in, true
}

func (a *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	id := a.seed(in.Title, in.Content, in.Author, time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC))
	p, _ := a.post(id)
	writeJSON(w, http.StatusCreated, p)
}

func (a *fakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	p, ok := a.post(id)
	if err != nil || !ok {
		notFound(w, r.PathValue("id"))
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	a.mu.Lock()
	p.Title, p.Content, p.Author = in.Title, in.Content, in.Author
	a.posts[id] = p
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

func (a *fakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if _, ok := a.post(id); err != nil || !ok {
		notFound(w, r.PathValue("id"))
		return
	}

	a.mu.Lock()
	delete(a.posts, id)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog post deleted successfully"})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
