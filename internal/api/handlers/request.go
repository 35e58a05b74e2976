package handlers

import (
	"net/http"
	"strconv"

	"meal-planner/internal/core/model"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// UpsertResponse 建立類請求的回應
type UpsertResponse struct {
	ID     uint               `json:"id"`
	Result model.UpsertResult `json:"result"`
}

// BindJSON 嚴格解析請求體，失敗時回傳 400
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := common.DecodeJSONStrict(c.Request.Body, v); err != nil {
		common.AbortWithError(c, common.ErrInvalidRequest.WithMessage("Invalid request format").Wrap(err))
		return false
	}
	return true
}

// ParamID 讀取路徑中的正整數 ID
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		common.AbortWithError(c, common.ErrNotFound.Wrap(common.NewValidationError("invalid "+name)))
		return 0, false
	}
	return uint(id), true
}

// RespondUpsert 新建時回 201，既有資料回 200
func RespondUpsert(c *gin.Context, id uint, result model.UpsertResult) {
	status := http.StatusOK
	if result == model.Created {
		status = http.StatusCreated
	}
	c.JSON(status, UpsertResponse{ID: id, Result: result})
}
