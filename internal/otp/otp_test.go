package otp

import (
	"context"
	"testing"
	"time"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("50 draws produced %d distinct codes", len(seen))
	}
}

func TestRecordExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{Code: "482913", ExpiresAt: now.Add(10 * time.Minute)}

	if rec.Expired(now) {
		t.Fatal("fresh record reported expired")
	}
	if rec.Expired(now.Add(9 * time.Minute)) {
		t.Fatal("record inside window reported expired")
	}
	if !rec.Expired(now.Add(11 * time.Minute)) {
		t.Fatal("record past window not reported expired")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	if _, ok, err := reg.Get(ctx, "jane@example.com"); err != nil || ok {
		t.Fatalf("empty registry: ok=%v err=%v", ok, err)
	}

	rec := Record{Code: "111111", ExpiresAt: time.Now().Add(time.Minute)}
	if err := reg.Set(ctx, "Jane@Example.com", rec, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Lookup is case-insensitive on the email key.
	got, ok, err := reg.Get(ctx, "jane@example.com")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if got.Code != "111111" {
		t.Fatalf("Code = %q", got.Code)
	}

	// A second Set replaces the first record.
	userID := uint(7)
	if err := reg.Set(ctx, "jane@example.com", Record{Code: "222222", PendingUserID: &userID}, time.Minute); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	got, _, _ = reg.Get(ctx, "jane@example.com")
	if got.Code != "222222" || got.PendingUserID == nil || *got.PendingUserID != 7 {
		t.Fatalf("replaced record = %+v", got)
	}

	if err := reg.Delete(ctx, "JANE@example.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := reg.Get(ctx, "jane@example.com"); ok {
		t.Fatal("record survived Delete")
	}
}
