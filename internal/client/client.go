package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/core/auth"
	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// APIError 伺服器回傳的錯誤
type APIError struct {
	Status int
	common.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// ImportResult 匯入食譜的結果
type ImportResult struct {
	ID     uint   `json:"id"`
	Result string `json:"result"`
}

// Client meal-planner API 客戶端
type Client struct {
	client *resty.Client
}

// New 創建客戶端，baseURL 例如 http://localhost:8080
func New(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api/v1").
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == http.StatusServiceUnavailable
		})

	return &Client{client: client}
}

// Login 取得 token 並套用到後續請求
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair auth.TokenPair
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&pair).
		SetError(&common.ErrorResponse{}).
		Post("/token")
	if err := checkResponse(resp, err); err != nil {
		return err
	}

	c.client.SetAuthToken(pair.Access)
	common.LogDebug("Logged in", zap.String("username", username))
	return nil
}

// ShoppingList 取得區間內的購物清單
func (c *Client) ShoppingList(ctx context.Context, start, end string) (map[string]float64, error) {
	var result struct {
		IngredientList map[string]float64 `json:"ingredient_list"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"start": start, "end": end}).
		SetResult(&result).
		SetError(&common.ErrorResponse{}).
		Get("/shopping-list/{start}/{end}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	if result.IngredientList == nil {
		result.IngredientList = map[string]float64{}
	}
	return result.IngredientList, nil
}

// Schedule 取得區間內的餐點
func (c *Client) Schedule(ctx context.Context, start, end string) ([]model.Meal, error) {
	var meals []model.Meal
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"start": start, "end": end}).
		SetResult(&meals).
		SetError(&common.ErrorResponse{}).
		Get("/schedule/{start}/{end}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return meals, nil
}

// ImportRecipe 上傳食譜，同名食譜會被更新
func (c *Client) ImportRecipe(ctx context.Context, recipe catalog.RecipeInput) (ImportResult, error) {
	var result ImportResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(recipe).
		SetResult(&result).
		SetError(&common.ErrorResponse{}).
		Post("/recipes")
	if err := checkResponse(resp, err); err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*common.ErrorResponse); ok && body.Code != "" {
		apiErr.ErrorResponse = *body
	} else {
		apiErr.Code = http.StatusText(resp.StatusCode())
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	return apiErr
}
