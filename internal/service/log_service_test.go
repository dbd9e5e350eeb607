package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/safetylog/internal/compliance"
	"github.com/safetylog/internal/db"
)

func TestComplianceLogAppendRejectsFutureDate(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	protocolSvc := NewProtocolService(db.DB)
	protocol, err := protocolSvc.Create(ProtocolInput{Name: "洗眼器测试", Frequency: "daily", TargetCount: 1, Active: true})
	if err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	svc := NewComplianceLogService(db.DB, compliance.Validator{})
	now := time.Now()

	_, err = svc.Append(ComplianceLogInput{ProtocolID: protocol.ID, CompletionDate: now.Add(time.Hour), Note: "提前打卡"}, now)
	var rejection *compliance.Rejection
	if !errors.As(err, &rejection) || rejection.Reason != compliance.RejectFutureDate {
		t.Fatalf("expected FUTURE_DATE rejection, got %v", err)
	}

	// completion == now 为合法边界
	record, err := svc.Append(ComplianceLogInput{ProtocolID: protocol.ID, CompletionDate: now}, now)
	if err != nil {
		t.Fatalf("expected completion == now to be accepted, got %v", err)
	}
	if record.UID == "" {
		t.Fatal("expected log to have UID")
	}
}

func TestComplianceLogAppendValidation(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewComplianceLogService(db.DB, compliance.Validator{})
	now := time.Now()

	if _, err := svc.Append(ComplianceLogInput{ProtocolID: 42, CompletionDate: now}, now); !errors.Is(err, ErrProtocolNotFound) {
		t.Fatalf("expected ErrProtocolNotFound, got %v", err)
	}

	protocolSvc := NewProtocolService(db.DB)
	protocol, err := protocolSvc.Create(ProtocolInput{Name: "护栏检查", Frequency: "daily", TargetCount: 1, Active: true})
	if err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	longNote := strings.Repeat("注", 501)
	if _, err := svc.Append(ComplianceLogInput{ProtocolID: protocol.ID, CompletionDate: now, Note: longNote}, now); !errors.Is(err, ErrLogInvalidInput) {
		t.Fatalf("expected ErrLogInvalidInput for long note, got %v", err)
	}
}

func TestComplianceLogListBetweenHalfOpen(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	protocolSvc := NewProtocolService(db.DB)
	protocol, err := protocolSvc.Create(ProtocolInput{Name: "起重机日检", Frequency: "daily", TargetCount: 1, Active: true})
	if err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	svc := NewComplianceLogService(db.DB, compliance.Validator{})
	now := time.Now()
	base := now.Add(-48 * time.Hour)

	for _, offset := range []time.Duration{0, 12 * time.Hour, 24 * time.Hour} {
		if _, err := svc.Append(ComplianceLogInput{ProtocolID: protocol.ID, CompletionDate: base.Add(offset)}, now); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	// [base, base+24h) 不应包含右边界上的记录
	logs, err := svc.ListBetween(ComplianceLogFilter{ProtocolID: protocol.ID, Start: base, End: base.Add(24 * time.Hour)})
	if err != nil {
		t.Fatalf("ListBetween returned error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs in half-open range, got %d", len(logs))
	}

	all, err := svc.ListForProtocol(protocol.ID)
	if err != nil {
		t.Fatalf("ListForProtocol returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(all))
	}
	if !all[0].CompletionDate.Before(all[2].CompletionDate) {
		t.Fatal("expected logs ordered by completion date")
	}
}

func TestComplianceLogDelete(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	protocolSvc := NewProtocolService(db.DB)
	protocol, err := protocolSvc.Create(ProtocolInput{Name: "消防通道巡查", Frequency: "daily", TargetCount: 1, Active: true})
	if err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	svc := NewComplianceLogService(db.DB, compliance.Validator{})
	now := time.Now()
	record, err := svc.Append(ComplianceLogInput{ProtocolID: protocol.ID, CompletionDate: now.Add(-time.Hour)}, now)
	if err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	if err := svc.Delete(record.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(record.ID); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound on second delete, got %v", err)
	}
}
