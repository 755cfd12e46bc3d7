package shared

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAuditLoggerAppendsJSONLines(t *testing.T) {
	dir := t.TempDir()
	logger := NewAuditLogger(dir)
	ctx := context.Background()

	first := AuditLog{
		Actor:    "pemilik",
		Action:   "transaction.propagate",
		Entity:   "transaction",
		EntityID: "trx-1",
		Meta:     map[string]any{"akun_debet": "Kas"},
		At:       time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := logger.Record(ctx, first); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second := first
	second.EntityID = "trx-2"
	if err := logger.Record(ctx, second); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer func() { _ = f.Close() }()

	var lines []AuditLog
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry AuditLog
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		lines = append(lines, entry)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].EntityID != "trx-1" || lines[1].EntityID != "trx-2" {
		t.Fatalf("unexpected entries: %+v", lines)
	}
	if lines[0].Actor != "pemilik" || lines[0].Action != "transaction.propagate" {
		t.Fatalf("unexpected first entry: %+v", lines[0])
	}
}

func TestAuditLoggerRejectsIncompleteRecords(t *testing.T) {
	logger := NewAuditLogger(t.TempDir())
	err := logger.Record(context.Background(), AuditLog{Actor: "pemilik"})
	if err == nil {
		t.Fatal("expected error for record without action/entity")
	}
}

func TestAuditLoggerFillsTimestamp(t *testing.T) {
	dir := t.TempDir()
	logger := NewAuditLogger(dir)

	entry := AuditLog{Action: "report.init", Entity: "report", EntityID: "neraca-saldo"}
	if err := logger.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	var stored AuditLog
	if err := json.Unmarshal(data[:len(data)-1], &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stored.At.IsZero() {
		t.Fatal("timestamp should be filled when zero")
	}
}
