package es

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"name":"test","cluster_name":"test","version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`))
			return
		}
		handle(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newIndex(t *testing.T, srv *httptest.Server) *ProductIndex {
	t.Helper()
	client, err := NewClient(Config{URL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return NewProductIndex(client, "products")
}

func TestSearch(t *testing.T) {
	srv, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":7},"hits":[{"_source":{"productId":"abc","name":"Red lamp"}}]}}`))
	})
	idx := newIndex(t, srv)

	total, docs, err := idx.Search(context.Background(), "lamp", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, docs, 1)
	assert.Equal(t, "Red lamp", docs[0].Name)

	last := (*reqs)[len(*reqs)-1]
	assert.Equal(t, "/products/_search", last.path)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.body), &q))
	assert.EqualValues(t, 10, q["from"])
	assert.EqualValues(t, 5, q["size"])
	assert.Contains(t, last.body, `"fuzziness":"AUTO"`)
	assert.Contains(t, last.body, `"name^2"`)
}

func TestSearch_ErrorStatus(t *testing.T) {
	srv, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query"}`))
	})
	idx := newIndex(t, srv)

	_, _, err := idx.Search(context.Background(), "lamp", 0, 10)
	assert.ErrorContains(t, err, "bad query")
}

func TestIndexAndDeleteProduct(t *testing.T) {
	srv, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	idx := newIndex(t, srv)

	p := &models.Product{
		ID:     primitive.NewObjectID(),
		Name:   "Lamp",
		Images: []models.Image{{PublicID: "products/a", URL: "http://img/a"}},
		Shop:   models.ShopSummary{Name: "Lights"},
	}
	require.NoError(t, idx.IndexProduct(context.Background(), p))
	// a missing document is not an error
	require.NoError(t, idx.DeleteProduct(context.Background(), p.ID.Hex()))

	var indexReq recorded
	for _, r := range *reqs {
		if r.method == http.MethodPut || r.method == http.MethodPost {
			indexReq = r
		}
	}
	assert.True(t, strings.HasSuffix(indexReq.path, "/_doc/"+p.ID.Hex()))
	assert.Contains(t, indexReq.body, `"image":"http://img/a"`)
	assert.Contains(t, indexReq.body, `"shopName":"Lights"`)
}
