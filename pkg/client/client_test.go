package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chanotai/library-lending/pkg/client"
)

func TestClient_Books(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/books", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"count":1,"data":[{"id":"b1","title":"1984","author":"George Orwell","quantity":3,"isAvailable":true}]}`))
	}))
	t.Cleanup(srv.Close)

	books, err := client.New(srv.URL).Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "1984", books[0].Title)
	require.Equal(t, 3, books[0].Quantity)
}

func TestClient_TokenHeader(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"count":0,"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL)
	c.SetToken("my-token")

	_, err := c.MyBorrowed(context.Background())
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"book is out of stock"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(srv.URL).Borrow(context.Background(), "b1")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "book is out of stock", apiErr.Message)
}
