package notify

import (
	"testing"
	"time"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
)

func TestRedisBus_ChannelPerUser(t *testing.T) {
	t.Parallel()

	bus := NewRedisBus(nil, "  ", nil)
	if got := bus.channel("u-1"); got != "betslip:account:u-1" {
		t.Fatalf("unexpected default channel: %s", got)
	}

	bus = NewRedisBus(nil, "prod", nil)
	if got := bus.channel("u-9"); got != "prod:account:u-9" {
		t.Fatalf("unexpected channel: %s", got)
	}
}

func TestSnapshotCodec(t *testing.T) {
	t.Parallel()

	in := account.Account{
		UserID:          "u-1",
		Email:           "a@b.c",
		Credits:         7,
		TotalSpentMinor: 29999,
		UpdatedAt:       time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	raw, err := encodeSnapshot(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodeSnapshot(string(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Credits != 7 || out.TotalSpentMinor != 29999 || !out.UpdatedAt.Equal(in.UpdatedAt) {
		t.Fatalf("unexpected snapshot: %+v", out)
	}

	if _, err := decodeSnapshot(`{"Credits":1}`); err == nil {
		t.Fatalf("expected error for snapshot without user id")
	}
	if _, err := decodeSnapshot(`not json`); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
