package notify

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
)

const defaultChannelPrefix = "betslip"

// RedisBus publishes snapshots over Redis pub/sub so every API instance can
// serve a user's stream.
type RedisBus struct {
	rdb    redis.UniversalClient
	prefix string
	logger *logging.Logger
}

func NewRedisBus(rdb redis.UniversalClient, prefix string, logger *logging.Logger) *RedisBus {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisBus{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "redis_snapshot_bus"),
	}
}

func (b *RedisBus) Publish(ctx context.Context, snapshot account.Account) error {
	raw, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel(snapshot.UserID), raw).Err(); err != nil {
		return fmt.Errorf("publish account snapshot: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, userID string) (<-chan account.Account, error) {
	sub := b.rdb.Subscribe(ctx, b.channel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan account.Account, 1)
	go func() {
		defer close(out)
		defer func() {
			_ = sub.Close()
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok || msg == nil {
					return
				}
				snapshot, err := decodeSnapshot(msg.Payload)
				if err != nil {
					b.logger.Warn("bad account snapshot payload", "user_id", userID, "error", err)
					continue
				}
				offerLatest(out, snapshot)
			}
		}
	}()

	return out, nil
}

func (b *RedisBus) channel(userID string) string {
	return b.prefix + ":account:" + userID
}

func encodeSnapshot(snapshot account.Account) ([]byte, error) {
	raw, err := sonic.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode account snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(payload string) (account.Account, error) {
	var snapshot account.Account
	if err := sonic.UnmarshalString(payload, &snapshot); err != nil {
		return account.Account{}, fmt.Errorf("decode account snapshot: %w", err)
	}
	if strings.TrimSpace(snapshot.UserID) == "" {
		return account.Account{}, fmt.Errorf("decode account snapshot: missing user id")
	}
	return snapshot, nil
}
