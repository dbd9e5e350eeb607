package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/service"
)

func TestCreateAndUpdateZone(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{"name": "危化品仓库", "color": "#FF8800"}
	w := performJSON(t, api, api.CreateZone, http.MethodPost, "/admin/api/zones", nil, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	created := decodeBody(t, w)["zone"].(map[string]any)
	if created["color"] != "ff8800" {
		t.Fatalf("expected normalized color, got %v", created["color"])
	}
	id := strconv.Itoa(int(created["id"].(float64)))

	update := map[string]any{"name": "危化品仓库A区", "color": "00cc66"}
	w = performJSON(t, api, api.UpdateZone, http.MethodPut, "/admin/api/zones/"+id,
		gin.Params{gin.Param{Key: "id", Value: id}}, update)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	updated := decodeBody(t, w)["zone"].(map[string]any)
	if updated["name"] != "危化品仓库A区" {
		t.Fatalf("expected updated name, got %v", updated["name"])
	}
}

func TestCreateZoneDuplicateName(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{"name": "装卸作业区", "color": "2266ee"}
	w := performJSON(t, api, api.CreateZone, http.MethodPost, "/admin/api/zones", nil, payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = performJSON(t, api, api.CreateZone, http.MethodPost, "/admin/api/zones", nil, payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for duplicate name, got %d", w.Code)
	}
}

func TestDeleteZoneInUse(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	zone, err := api.zones.Create(service.ZoneInput{Name: "高温熔炼车间", Color: "cc2200"})
	if err != nil {
		t.Fatalf("failed to create zone: %v", err)
	}
	if _, err := api.protocols.Create(service.ProtocolInput{
		Name:        "熔炉巡检",
		Frequency:   "daily",
		TargetCount: 1,
		Active:      true,
		ZoneIDs:     []uint{zone.ID},
	}); err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	id := strconv.Itoa(int(zone.ID))
	w := performJSON(t, api, api.DeleteZone, http.MethodDelete, "/admin/api/zones/"+id,
		gin.Params{gin.Param{Key: "id", Value: id}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for zone in use, got %d", w.Code)
	}

	w = performJSON(t, api, api.GetZone, http.MethodGet, "/admin/api/zones/"+id,
		gin.Params{gin.Param{Key: "id", Value: id}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected zone to survive failed delete, got %d", w.Code)
	}
}
