package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStore_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/filmes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","titulo":"Duna"},{"id":"2","titulo":"Oppenheimer"}]`))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL+"/", time.Second)
	docs, err := store.List(context.Background(), "filmes")

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"1","titulo":"Duna"}`, string(docs[0]))
}

func TestHTTPStore_CreateAndUpdate(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotContentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"9","nome":"Sala 1"}`))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, time.Second)

	doc, err := store.Create(context.Background(), "salas", json.RawMessage(`{"nome":"Sala 1"}`))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/salas", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"nome":"Sala 1"}`, gotBody)
	assert.JSONEq(t, `{"id":"9","nome":"Sala 1"}`, string(doc))

	_, err = store.Update(context.Background(), "salas", "9", json.RawMessage(`{"nome":"Sala 1"}`))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/salas/9", gotPath)
}

func TestHTTPStore_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ingressos/404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, time.Second)

	err := store.Delete(context.Background(), "ingressos", "404")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.List(context.Background(), "ingressos")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
}

func TestHTTPStore_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	store := NewHTTPStore(srv.URL, time.Second)
	assert.NoError(t, store.Ping(context.Background()))

	srv.Close()
	assert.Error(t, store.Ping(context.Background()))
}
