package auth

import (
	"context"
	"sync"
	"time"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryRevocationStore 行程內的撤銷清單，定期清除已過期的項目
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	maxSize int
	store   map[string]revokedEntry
	stats   revocationStats
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// revokedEntry 撤銷項目
type revokedEntry struct {
	expiresAt time.Time
	revokedAt time.Time
}

// revocationStats 撤銷清單統計
type revocationStats struct {
	checks    int64
	hits      int64
	evictions int64
}

// NewMemoryRevocationStore 創建撤銷清單並啟動清理協程
func NewMemoryRevocationStore(maxSize int, cleanupInterval time.Duration) *MemoryRevocationStore {
	s := &MemoryRevocationStore{
		maxSize: maxSize,
		store:   make(map[string]revokedEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go s.startCleanup(cleanupInterval)
	}

	common.LogInfo("撤銷清單已初始化",
		zap.String("type", "memory"),
		zap.Int("max_size", maxSize),
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return s
}

// Revoke 撤銷 jti
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !expiresAt.After(now) {
		return nil
	}

	if _, exists := s.store[jti]; !exists && len(s.store) >= s.maxSize {
		if s.cleanup() == 0 {
			s.evictSoonest()
		}
	}

	s.store[jti] = revokedEntry{expiresAt: expiresAt, revokedAt: now}
	return nil
}

// IsRevoked 檢查 jti 是否已撤銷
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.checks++
	entry, exists := s.store[jti]
	if !exists {
		return false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.store, jti)
		s.stats.evictions++
		return false, nil
	}
	s.stats.hits++
	return true, nil
}

// startCleanup 啟動清理過期項目的協程
func (s *MemoryRevocationStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cleanup()
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// cleanup 清理過期項目，呼叫者需持有鎖
func (s *MemoryRevocationStore) cleanup() int {
	now := s.now()
	count := 0
	for jti, entry := range s.store {
		if !now.Before(entry.expiresAt) {
			delete(s.store, jti)
			count++
		}
	}
	s.stats.evictions += int64(count)

	if count > 0 {
		common.LogDebug("Cleaned up expired revocations",
			zap.Int("count", count),
			zap.Int("remaining_size", len(s.store)),
		)
	}
	return count
}

// evictSoonest 容量已滿時移除最快過期的項目
func (s *MemoryRevocationStore) evictSoonest() {
	var soonestKey string
	var soonest time.Time
	for jti, entry := range s.store {
		if soonestKey == "" || entry.expiresAt.Before(soonest) {
			soonestKey = jti
			soonest = entry.expiresAt
		}
	}
	if soonestKey != "" {
		delete(s.store, soonestKey)
		s.stats.evictions++
		common.LogWarn("撤銷清單已滿，提前移除項目", zap.Time("expires_at", soonest))
	}
}

// GetStats 獲取統計信息
func (s *MemoryRevocationStore) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"size":      len(s.store),
		"max_size":  s.maxSize,
		"checks":    s.stats.checks,
		"hits":      s.stats.hits,
		"evictions": s.stats.evictions,
	}
}

// Close 停止清理協程
func (s *MemoryRevocationStore) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.mu.RLock()
		common.LogInfo("撤銷清單已關閉",
			zap.Int("size", len(s.store)),
			zap.Int64("checks", s.stats.checks),
			zap.Int64("hits", s.stats.hits),
		)
		s.mu.RUnlock()
	})
	return nil
}
