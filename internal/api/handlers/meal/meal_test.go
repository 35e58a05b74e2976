package meal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"meal-planner/internal/core/model"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBuilder struct {
	scope model.Scope
	list  map[string]float64
	err   error
}

func (s *stubBuilder) BuildShoppingList(_ context.Context, _, _ model.Date, scope model.Scope) (map[string]float64, error) {
	s.scope = scope
	return s.list, s.err
}

type noPlanner struct {
	*planner.Service
}

func (noPlanner) MealsInRange(context.Context, uint, model.Date, model.Date) ([]model.Meal, error) {
	return []model.Meal{}, nil
}

func newRouter(h *Handler, userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.GET("/shopping-list/:start/:end", h.ShoppingList)
	r.GET("/schedule/:start/:end", h.Schedule)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestShoppingListErrors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "InvalidRecipeState",
			err:    &shopping.RecipeStateError{MealID: 1, DishID: 2, RecipeID: 3, Portions: 0},
			status: http.StatusInternalServerError,
			code:   common.ErrCodeInvalidRecipeState,
		},
		{
			name:   "DanglingReference",
			err:    fmt.Errorf("meal 1: %w", &shopping.DanglingReferenceError{MealID: 1, Entity: "dish", ID: 2, Missing: "recipe"}),
			status: http.StatusInternalServerError,
			code:   common.ErrCodeDanglingReference,
		},
		{
			name:   "StorageFailure",
			err:    errors.New("database is locked"),
			status: http.StatusInternalServerError,
			code:   common.ErrCodeInternalError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(noPlanner{}, &stubBuilder{err: tc.err}, false)
			w := get(newRouter(h, 7), "/shopping-list/2024-01-01/2024-01-07")
			require.Equal(t, tc.status, w.Code)

			var body common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, tc.code, body.Code)
			require.Empty(t, body.Details)
		})
	}
}

func TestShoppingListScope(t *testing.T) {
	builder := &stubBuilder{list: map[string]float64{"Flour, gr": 2000}}

	w := get(newRouter(NewHandler(noPlanner{}, builder, false), 7), "/shopping-list/2024-01-01/2024-01-01")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ingredient_list":{"Flour, gr":2000}}`, w.Body.String())
	require.Equal(t, model.UserScope(7), builder.scope)

	w = get(newRouter(NewHandler(noPlanner{}, builder, true), 7), "/shopping-list/2024-01-01/2024-01-01")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, model.GlobalScope(), builder.scope)
}

func TestRequiresAuthenticatedUser(t *testing.T) {
	h := NewHandler(noPlanner{}, &stubBuilder{}, false)
	w := get(newRouter(h, 0), "/schedule/2024-01-01/2024-01-07")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(newRouter(h, 7), "/schedule/2024-01-01/2024-01-07")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}
