package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/db"
	"github.com/safetylog/internal/service"
)

type protocolPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	TargetCount int    `json:"target_count"`
	Active      *bool  `json:"active"`
	ZoneIDs     []uint `json:"zone_ids"`
}

// ListProtocols 返回协议列表 JSON
func (a *API) ListProtocols(c *gin.Context) {
	filter := service.ProtocolFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if zoneID, err := parseUintQuery(c, "zone_id"); err == nil {
		filter.ZoneID = zoneID
	}

	protocols, err := a.protocols.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取协议列表失败")
		return
	}

	items := make([]gin.H, 0, len(protocols))
	for _, protocol := range protocols {
		items = append(items, protocolToPayload(protocol))
	}

	c.JSON(http.StatusOK, gin.H{"protocols": items})
}

// GetProtocol 返回单个协议详情，附带渲染后的操作说明
func (a *API) GetProtocol(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	protocol, err := a.protocols.Get(id)
	if err != nil {
		handleProtocolError(c, err)
		return
	}

	payload := protocolToPayload(*protocol)
	payload["description_html"] = renderInstructions(protocol.Description)

	c.JSON(http.StatusOK, gin.H{"protocol": payload})
}

// CreateProtocol 创建协议
func (a *API) CreateProtocol(c *gin.Context) {
	input, ok := parseProtocolInput(c)
	if !ok {
		return
	}

	protocol, err := a.protocols.Create(input)
	if err != nil {
		handleProtocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"protocol": protocolToPayload(*protocol)})
}

// UpdateProtocol 更新协议
func (a *API) UpdateProtocol(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	input, ok := parseProtocolInput(c)
	if !ok {
		return
	}

	protocol, err := a.protocols.Update(id, input)
	if err != nil {
		handleProtocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"protocol": protocolToPayload(*protocol)})
}

// DeleteProtocol 删除协议及其全部打卡记录
func (a *API) DeleteProtocol(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的协议ID")
		return
	}

	if err := a.protocols.Delete(id); err != nil {
		handleProtocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func parseProtocolInput(c *gin.Context) (service.ProtocolInput, bool) {
	var payload protocolPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.ProtocolInput{}, false
	}

	// 未显式给出 active 时默认启用
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	return service.ProtocolInput{
		Name:        payload.Name,
		Description: payload.Description,
		Frequency:   payload.Frequency,
		TargetCount: payload.TargetCount,
		Active:      active,
		ZoneIDs:     payload.ZoneIDs,
	}, true
}

func protocolToPayload(protocol db.Protocol) gin.H {
	zones := make([]gin.H, 0, len(protocol.Zones))
	for _, zone := range protocol.Zones {
		zones = append(zones, zoneToPayload(zone))
	}

	return gin.H{
		"id":           protocol.ID,
		"uid":          protocol.UID,
		"name":         protocol.Name,
		"description":  protocol.Description,
		"frequency":    protocol.Frequency,
		"target_count": protocol.TargetCount,
		"active":       protocol.Active,
		"zones":        zones,
		"created_at":   protocol.CreatedAt.Format(time.RFC3339),
	}
}

func handleProtocolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProtocolNotFound):
		respondError(c, http.StatusNotFound, "协议不存在")
	case errors.Is(err, service.ErrZoneNotFound):
		respondError(c, http.StatusBadRequest, "引用的区域不存在")
	case errors.Is(err, service.ErrProtocolFrequencyLocked):
		respondError(c, http.StatusConflict, "协议已有打卡记录，频率不可变更")
	case errors.Is(err, service.ErrProtocolInvalidInput):
		respondError(c, http.StatusBadRequest, "协议配置无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
