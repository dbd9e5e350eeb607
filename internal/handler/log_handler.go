package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/compliance"
	"github.com/safetylog/internal/db"
	"github.com/safetylog/internal/service"
)

// ListProtocolLogs 返回协议的打卡记录，支持可选的时间区间
func (a *API) ListProtocolLogs(c *gin.Context) {
	protocolID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	if _, err := a.protocols.Get(protocolID); err != nil {
		handleProtocolError(c, err)
		return
	}

	startStr := c.Query("start")
	endStr := c.Query("end")

	var logs []db.ComplianceLog
	if startStr != "" || endStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的起始时间")
			return
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的结束时间")
			return
		}
		logs, err = a.logs.ListBetween(service.ComplianceLogFilter{ProtocolID: protocolID, Start: start, End: end})
		if err != nil {
			handleLogError(c, err)
			return
		}
	} else {
		logs, err = a.logs.ListForProtocol(protocolID)
		if err != nil {
			handleLogError(c, err)
			return
		}
	}

	items := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		items = append(items, logToPayload(entry))
	}

	c.JSON(http.StatusOK, gin.H{"logs": items})
}

// CreateProtocolLog 追加一条打卡记录，落库前经过完成时间门禁
func (a *API) CreateProtocolLog(c *gin.Context) {
	protocolID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	var payload struct {
		CompletionDate string `json:"completion_date"` // RFC3339
		Note           string `json:"note"`
		Source         string `json:"source"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if payload.CompletionDate == "" {
		respondError(c, http.StatusBadRequest, "请提供完成时间")
		return
	}
	completion, err := time.Parse(time.RFC3339, payload.CompletionDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的完成时间")
		return
	}

	source := payload.Source
	if source == "" {
		source = "manual"
	}

	entry, err := a.logs.Append(service.ComplianceLogInput{
		ProtocolID:     protocolID,
		CompletionDate: completion,
		Note:           payload.Note,
		Source:         source,
	}, a.now())
	if err != nil {
		handleLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": logToPayload(*entry)})
}

// DeleteProtocolLog 删除单条打卡记录
func (a *API) DeleteProtocolLog(c *gin.Context) {
	protocolID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	logID, err := parseUintParam(c, "logId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的打卡记录ID")
		return
	}

	if err := a.logs.Delete(logID); err != nil {
		handleLogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true, "protocol_id": protocolID})
}

func logToPayload(entry db.ComplianceLog) gin.H {
	return gin.H{
		"id":              entry.ID,
		"uid":             entry.UID,
		"protocol_id":     entry.ProtocolID,
		"completion_date": entry.CompletionDate.Format(time.RFC3339),
		"note":            entry.Note,
		"source":          entry.Source,
		"created_at":      entry.CreatedAt.Format(time.RFC3339),
	}
}

func handleLogError(c *gin.Context, err error) {
	var rejection *compliance.Rejection
	switch {
	case errors.As(err, &rejection):
		c.JSON(http.StatusBadRequest, gin.H{"error": "完成时间被拒绝", "reason": string(rejection.Reason)})
	case errors.Is(err, service.ErrProtocolNotFound):
		respondError(c, http.StatusNotFound, "协议不存在")
	case errors.Is(err, service.ErrLogNotFound):
		respondError(c, http.StatusNotFound, "打卡记录不存在")
	case errors.Is(err, service.ErrLogInvalidInput):
		respondError(c, http.StatusBadRequest, "打卡记录参数无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
