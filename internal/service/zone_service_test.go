package service

import (
	"errors"
	"testing"

	"github.com/safetylog/internal/db"
)

func TestHazardZoneServiceCreateValidation(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewHazardZoneService(db.DB)

	zone, err := svc.Create(ZoneInput{Name: "高温作业区", Color: "#FFAA00"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if zone.Color != "ffaa00" {
		t.Fatalf("expected normalized color, got %s", zone.Color)
	}

	if _, err := svc.Create(ZoneInput{Name: "高温作业区"}); !errors.Is(err, ErrZoneExists) {
		t.Fatalf("expected ErrZoneExists, got %v", err)
	}

	if _, err := svc.Create(ZoneInput{Name: "配电室", Color: "red"}); !errors.Is(err, ErrZoneInvalidInput) {
		t.Fatalf("expected ErrZoneInvalidInput for color, got %v", err)
	}

	if _, err := svc.Create(ZoneInput{Name: "ab"}); !errors.Is(err, ErrZoneInvalidInput) {
		t.Fatalf("expected ErrZoneInvalidInput for name, got %v", err)
	}
}

func TestHazardZoneServiceDeleteBlockedWhenInUse(t *testing.T) {
	cleanup := setupServiceTestDB(t)
	defer cleanup()

	zoneSvc := NewHazardZoneService(db.DB)
	zone, err := zoneSvc.Create(ZoneInput{Name: "冷库区域"})
	if err != nil {
		t.Fatalf("failed to create zone: %v", err)
	}

	protocolSvc := NewProtocolService(db.DB)
	if _, err := protocolSvc.Create(ProtocolInput{Name: "冷库温度记录", Frequency: "shift_start", TargetCount: 1, Active: true, ZoneIDs: []uint{zone.ID}}); err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	if err := zoneSvc.Delete(zone.ID); !errors.Is(err, ErrZoneInUse) {
		t.Fatalf("expected ErrZoneInUse, got %v", err)
	}
}
