package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/example/blog-api/internal/config"
	"github.com/example/blog-api/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeCluster answers like an Elasticsearch node, including the product
// header the client checks for.
func fakeCluster(t *testing.T, searchBody string) (*Elastic, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = io.WriteString(w, searchBody)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
		default:
			_, _ = io.WriteString(w, `{"result":"created"}`)
		}
	}))
	t.Cleanup(srv.Close)

	es, err := NewElastic(&config.Config{ElasticAddr: srv.URL})
	if err != nil {
		t.Fatalf("NewElastic: %v", err)
	}
	return es, &reqs
}

func TestIndexPost(t *testing.T) {
	es, reqs := fakeCluster(t, `{}`)
	post := models.Post{ID: "abc123", Title: "Hello", Content: "World"}

	if err := es.IndexPost(context.Background(), post); err != nil {
		t.Fatalf("IndexPost: %v", err)
	}
	if len(*reqs) != 1 {
		t.Fatalf("requests = %+v", *reqs)
	}
	got := (*reqs)[0]
	if got.Method != http.MethodPut || got.Path != "/posts/_doc/abc123" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
	var doc indexedPost
	if err := json.Unmarshal([]byte(got.Body), &doc); err != nil {
		t.Fatalf("body: %v", err)
	}
	if doc.PostID != "abc123" || doc.Title != "Hello" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestDeletePostIgnoresMissingDocument(t *testing.T) {
	es, _ := fakeCluster(t, `{}`)
	if err := es.DeletePost(context.Background(), "gone"); err != nil {
		t.Errorf("DeletePost: %v", err)
	}
}

func TestSearchPosts(t *testing.T) {
	es, reqs := fakeCluster(t, `{"hits":{"hits":[
		{"_source":{"post_id":"p1","title":"Go tips","content":"Use gin"}},
		{"_source":{"post_id":"p2","title":"More Go","content":"Use gorm"}}
	]}}`)

	posts, err := es.SearchPosts(context.Background(), "go")
	if err != nil {
		t.Fatalf("SearchPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "p1" || posts[1].Title != "More Go" {
		t.Errorf("posts = %+v", posts)
	}
	if !strings.Contains((*reqs)[0].Body, `"multi_match"`) {
		t.Errorf("query body = %s", (*reqs)[0].Body)
	}
}
