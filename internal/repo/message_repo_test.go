package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/solxray/wallet-relay/internal/domain"
)

func TestAppendMessageLog(t *testing.T) {
	db := newTestDB(t, &domain.MessageLog{})
	ctx := context.Background()

	m, err := AppendMessageLog(ctx, db, "u1", "*TRANSFER*\n\nsomething happened")
	if err != nil {
		t.Fatalf("AppendMessageLog: %v", err)
	}
	if m.ID == "" || m.UserID != "u1" {
		t.Fatalf("unexpected row: %+v", m)
	}
	if m.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}
}

func TestListMessageLogs_NewestFirstAndLimit(t *testing.T) {
	db := newTestDB(t, &domain.MessageLog{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		m, err := AppendMessageLog(ctx, db, "u1", fmt.Sprintf("msg %d", i))
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
		db.Model(m).Update("created_at", time.Now().UTC().Add(time.Duration(i)*time.Minute))
	}

	got, err := ListMessageLogs(ctx, db, "u1", 3)
	if err != nil {
		t.Fatalf("ListMessageLogs: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Message != "msg 4" {
		t.Fatalf("newest first: got %q", got[0].Message)
	}

	all, err := ListMessageLogs(ctx, db, "u1", 0) // default limit
	if err != nil {
		t.Fatalf("default limit: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("default limit len = %d, want 5", len(all))
	}
}
