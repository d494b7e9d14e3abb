package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/ppiankov/anchorbench/internal/worker"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "anchorbench-test/0.1",
		MaxBodyBytes: 1024,
	}
}

func testClient(store *memStore) *Client {
	if store == nil {
		return NewClient(testHTTPConfig(), worker.NewThrottle(1000, 10), nil, nil)
	}
	return NewClient(testHTTPConfig(), worker.NewThrottle(1000, 10), nil, store)
}

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestClient_GetSetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := testClient(nil)
	body, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "ok" {
		t.Errorf("unexpected body %q", body)
	}
	if gotUA != "anchorbench-test/0.1" {
		t.Errorf("unexpected User-Agent %q", gotUA)
	}
}

func TestClient_GetMergesHeaders(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("Accept", "application/vnd.github.raw")

	client := testClient(nil)
	if _, err := client.Get(context.Background(), server.URL, header); err != nil {
		t.Fatal(err)
	}
	if gotAccept != "application/vnd.github.raw" {
		t.Errorf("unexpected Accept %q", gotAccept)
	}
}

func TestClient_GetNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(nil)
	if _, err := client.Get(context.Background(), server.URL, nil); err == nil {
		t.Error("expected error for 403 response")
	}
}

func TestClient_GetCapsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 10_000)))
	}))
	defer server.Close()

	client := testClient(nil)
	body, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 1024 {
		t.Errorf("expected body capped at 1024 bytes, got %d", len(body))
	}
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"full_name":"owner/repo"}]}`))
	}))
	defer server.Close()

	client := testClient(nil)
	var resp repoSearchResponse
	if err := client.GetJSON(context.Background(), server.URL, nil, &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Items[0].FullName != "owner/repo" {
		t.Errorf("unexpected decode result %+v", resp)
	}
}

func TestClient_GetJSONMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := testClient(nil)
	var resp repoSearchResponse
	if err := client.GetJSON(context.Background(), server.URL, nil, &resp); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_GetCachedHitsCache(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("listing"))
	}))
	defer server.Close()

	client := testClient(newMemStore())

	for i := 0; i < 3; i++ {
		body, err := client.GetCached(context.Background(), server.URL, nil, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != "listing" {
			t.Errorf("unexpected body %q", body)
		}
	}

	if atomic.LoadInt64(&hits) != 1 {
		t.Errorf("expected a single upstream fetch, got %d", hits)
	}
}

func TestClient_GetCachedNilStoreFetchesEveryTime(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("listing"))
	}))
	defer server.Close()

	client := testClient(nil)
	for i := 0; i < 2; i++ {
		if _, err := client.GetCached(context.Background(), server.URL, nil, time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if atomic.LoadInt64(&hits) != 2 {
		t.Errorf("expected 2 upstream fetches without a store, got %d", hits)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := testClient(nil)
	if _, err := client.Get(ctx, server.URL, nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}
