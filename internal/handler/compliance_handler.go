package handler

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/compliance"
)

// GetProtocolCompliance 返回单个协议在指定时刻的合规状态。
// at 为可选的 RFC3339 时间，缺省取当前时间；显式传入可回放历史窗口。
func (a *API) GetProtocolCompliance(c *gin.Context) {
	protocolID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	reference, ok := a.parseReference(c)
	if !ok {
		return
	}

	eval, err := a.compliance.Status(protocolID, reference)
	if err != nil {
		handleProtocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"protocol_id": protocolID,
		"reference":   reference.Format(time.RFC3339),
		"compliance":  evaluationToPayload(*eval),
	})
}

// GetComplianceSummary 返回全部协议的合规汇总
func (a *API) GetComplianceSummary(c *gin.Context) {
	reference, ok := a.parseReference(c)
	if !ok {
		return
	}

	summary, err := a.compliance.Summary(reference)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "计算合规汇总失败")
		return
	}

	items := make([]gin.H, 0, len(summary.States))
	for id, eval := range summary.States {
		payload := evaluationToPayload(eval)
		payload["protocol_id"] = id
		items = append(items, payload)
	}
	slices.SortFunc(items, func(x, y gin.H) int {
		return cmp.Compare(x["protocol_id"].(uint), y["protocol_id"].(uint))
	})

	c.JSON(http.StatusOK, gin.H{
		"reference": reference.Format(time.RFC3339),
		"protocols": items,
		"rollup":    rollupToPayload(summary.Rollup),
	})
}

func (a *API) parseReference(c *gin.Context) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return a.now(), true
	}

	reference, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评估时间")
		return time.Time{}, false
	}
	return reference, true
}

func evaluationToPayload(eval compliance.Evaluation) gin.H {
	return gin.H{
		"state":          string(eval.State),
		"window_start":   eval.Window.Start.Format(time.RFC3339),
		"window_end":     eval.Window.End.Format(time.RFC3339),
		"count":          eval.Count,
		"target_count":   eval.TargetCount,
		"previous_count": eval.PreviousCount,
		"previous_met":   eval.PreviousMet,
	}
}

func rollupToPayload(rollup map[compliance.State]int) gin.H {
	return gin.H{
		"compliant":   rollup[compliance.StateCompliant],
		"pending":     rollup[compliance.StatePending],
		"overdue":     rollup[compliance.StateOverdue],
		"not_yet_due": rollup[compliance.StateNotYetDue],
		"inactive":    rollup[compliance.StateInactive],
	}
}
