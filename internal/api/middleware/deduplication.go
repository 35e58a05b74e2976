package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// requestCache 最近請求指紋與時間
type requestCache struct {
	mu        sync.Mutex
	window    time.Duration
	requests  map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

func newRequestCache(window time.Duration) *requestCache {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &requestCache{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// seen 記錄指紋，window 內重複出現回傳 true
func (rc *requestCache) seen(fingerprint string) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := rc.now()
	if now.Sub(rc.lastSweep) > 10*rc.window {
		for k, t := range rc.requests {
			if now.Sub(t) > rc.window {
				delete(rc.requests, k)
			}
		}
		rc.lastSweep = now
	}

	if last, exists := rc.requests[fingerprint]; exists && now.Sub(last) <= rc.window {
		return true
	}
	rc.requests[fingerprint] = now
	return false
}

// Deduplication 拒絕 window 內重複送出的相同 POST 請求
func Deduplication(window time.Duration) gin.HandlerFunc {
	cache := newRequestCache(window)

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		h := sha256.New()
		// 不同使用者送出相同內容不算重複
		h.Write([]byte(c.GetHeader("Authorization")))
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				common.AbortWithError(c, common.ErrRequestTooLarge.Wrap(err))
				return
			}
			h.Write(body)
			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(h.Sum(nil))
		if cache.seen(fingerprint) {
			common.LogInfo("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			common.AbortWithError(c, common.ErrTooManyRequests.WithMessage("Request too frequent"))
			return
		}

		c.Next()
	}
}
