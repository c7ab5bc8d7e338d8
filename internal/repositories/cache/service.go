package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"refpay/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheService wraps redis with JSON serialization for read-side views.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{client: client, ttl: defaultTTL}
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Wallet views

func (s *CacheService) GetWallet(ctx context.Context, chatID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.Get(ctx, walletKey(chatID), &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *CacheService) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.Set(ctx, walletKey(wallet.ChatID), wallet)
}

func (s *CacheService) InvalidateWallet(ctx context.Context, chatID string) error {
	return s.Delete(ctx, walletKey(chatID))
}

// Referral summary views

func (s *CacheService) GetReferralSummary(ctx context.Context, chatID string, dest interface{}) error {
	return s.Get(ctx, referralKey(chatID), dest)
}

func (s *CacheService) SetReferralSummary(ctx context.Context, chatID string, summary interface{}) error {
	return s.Set(ctx, referralKey(chatID), summary)
}

func (s *CacheService) InvalidateReferralSummary(ctx context.Context, chatID string) error {
	return s.Delete(ctx, referralKey(chatID))
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func walletKey(chatID string) string {
	return "wallet:" + chatID
}

func referralKey(chatID string) string {
	return "referral:summary:" + chatID
}
