package handler

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/service"
)

func TestGetProtocolComplianceScenario(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	protocolID := createTestProtocol(t, api, "应急出口检查", "daily", 1)
	id := strconv.Itoa(int(protocolID))
	now := time.Now()

	w := performJSON(t, api, api.GetProtocolCompliance, http.MethodGet, "/admin/api/protocols/"+id+"/compliance",
		gin.Params{gin.Param{Key: "id", Value: id}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	state := decodeBody(t, w)["compliance"].(map[string]any)["state"]
	if state != "PENDING" {
		t.Fatalf("expected PENDING with no logs, got %v", state)
	}

	if _, err := api.logs.Append(service.ComplianceLogInput{
		ProtocolID:     protocolID,
		CompletionDate: now.Add(-time.Minute),
	}, now); err != nil {
		t.Fatalf("failed to append log: %v", err)
	}

	w = performJSON(t, api, api.GetProtocolCompliance, http.MethodGet, "/admin/api/protocols/"+id+"/compliance",
		gin.Params{gin.Param{Key: "id", Value: id}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	state = decodeBody(t, w)["compliance"].(map[string]any)["state"]
	if state != "COMPLIANT" {
		t.Fatalf("expected COMPLIANT after completion, got %v", state)
	}
}

// at 参数支持在任意历史时刻重放评估
func TestGetProtocolComplianceHistoricalReference(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	protocolID := createTestProtocol(t, api, "月度消防演练", "monthly", 1)
	id := strconv.Itoa(int(protocolID))

	// 评估时刻早于协议创建时间
	past := time.Now().AddDate(-1, 0, 0).Format(time.RFC3339)
	w := performJSON(t, api, api.GetProtocolCompliance, http.MethodGet,
		"/admin/api/protocols/"+id+"/compliance?at="+past,
		gin.Params{gin.Param{Key: "id", Value: id}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	state := decodeBody(t, w)["compliance"].(map[string]any)["state"]
	if state != "NOT_YET_DUE" {
		t.Fatalf("expected NOT_YET_DUE before creation, got %v", state)
	}

	w = performJSON(t, api, api.GetProtocolCompliance, http.MethodGet,
		"/admin/api/protocols/"+id+"/compliance?at=not-a-time",
		gin.Params{gin.Param{Key: "id", Value: id}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad reference, got %d", w.Code)
	}
}

func TestGetComplianceSummary(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	activeID := createTestProtocol(t, api, "消防栓巡检", "daily", 1)
	if _, err := api.protocols.Create(service.ProtocolInput{
		Name:        "停用的演练计划",
		Frequency:   "weekly",
		TargetCount: 1,
		Active:      false,
	}); err != nil {
		t.Fatalf("failed to create protocol: %v", err)
	}

	now := time.Now()
	if _, err := api.logs.Append(service.ComplianceLogInput{
		ProtocolID:     activeID,
		CompletionDate: now.Add(-time.Minute),
	}, now); err != nil {
		t.Fatalf("failed to append log: %v", err)
	}

	w := performJSON(t, api, api.GetComplianceSummary, http.MethodGet, "/admin/api/compliance/summary", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	protocols := body["protocols"].([]any)
	if len(protocols) != 2 {
		t.Fatalf("expected 2 protocols in summary, got %d", len(protocols))
	}

	rollup := body["rollup"].(map[string]any)
	if rollup["compliant"].(float64) != 1 {
		t.Fatalf("expected 1 compliant, got %v", rollup["compliant"])
	}
	if rollup["inactive"].(float64) != 1 {
		t.Fatalf("expected 1 inactive, got %v", rollup["inactive"])
	}
}
