package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"meal-planner/internal/core/catalog"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	authorized := func(r *http.Request) bool {
		return r.Header.Get("Authorization") == "Bearer access-token"
	}

	mux.HandleFunc("/api/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, common.ErrorResponse{
				Code:    common.ErrCodeUnauthorized,
				Message: "No active account found with the given credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": "access-token", "refresh": "refresh-token"})
	})
	mux.HandleFunc("/api/v1/shopping-list/2024-01-01/2024-01-07", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, common.ErrorResponse{Code: common.ErrCodeUnauthorized, Message: "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ingredient_list": map[string]float64{"Flour, gr": 2000, "Avocado, unt": 2},
		})
	})
	mux.HandleFunc("/api/v1/shopping-list/2024-13-01/2024-01-07", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidDateFormat,
			Message: "Invalid date format. Use YYYY-MM-DD",
		})
	})
	mux.HandleFunc("/api/v1/schedule/2024-01-01/2024-01-07", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":3,"date":"2024-01-02","meal":"lu","dishes":[],"extras":[]}]`))
	})
	mux.HandleFunc("/api/v1/recipes", func(w http.ResponseWriter, r *http.Request) {
		var in catalog.RecipeInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "Bread", in.Name)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"id": 9, "result": "created"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := New(srv.URL + "/")

	_, err := c.ShoppingList(ctx, "2024-01-01", "2024-01-07")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	err = c.Login(ctx, "ana", "wrong")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, common.ErrCodeUnauthorized, apiErr.Code)

	require.NoError(t, c.Login(ctx, "ana", "s3cret"))

	list, err := c.ShoppingList(ctx, "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"Flour, gr": 2000, "Avocado, unt": 2}, list)

	_, err = c.ShoppingList(ctx, "2024-13-01", "2024-01-07")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, common.ErrCodeInvalidDateFormat, apiErr.Code)

	meals, err := c.Schedule(ctx, "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	require.Equal(t, "2024-01-02", meals[0].Date.String())

	portions := 2
	result, err := c.ImportRecipe(ctx, catalog.RecipeInput{Name: "Bread", Portions: &portions})
	require.NoError(t, err)
	require.Equal(t, ImportResult{ID: 9, Result: "created"}, result)
}

func TestClientRetriesUnavailable(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ingredient_list": map[string]float64{}})
	}))
	defer srv.Close()

	list, err := New(srv.URL).ShoppingList(context.Background(), "2024-01-01", "2024-01-07")
	require.NoError(t, err)
	require.Empty(t, list)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Schedule(context.Background(), "2024-01-01", "2024-01-07")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "boom", apiErr.Message)
}
