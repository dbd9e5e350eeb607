package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetylog/internal/db"
	"github.com/safetylog/internal/service"
)

type zonePayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ListZones 返回区域列表 JSON
func (a *API) ListZones(c *gin.Context) {
	zones, err := a.zones.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取区域列表失败")
		return
	}

	items := make([]gin.H, 0, len(zones))
	for _, zone := range zones {
		items = append(items, zoneToPayload(zone))
	}

	c.JSON(http.StatusOK, gin.H{"zones": items})
}

// GetZone 返回单个区域详情
func (a *API) GetZone(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区域ID")
		return
	}

	zone, err := a.zones.Get(id)
	if err != nil {
		handleZoneError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"zone": zoneToPayload(*zone)})
}

// CreateZone 创建区域
func (a *API) CreateZone(c *gin.Context) {
	var payload zonePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	zone, err := a.zones.Create(service.ZoneInput{Name: payload.Name, Color: payload.Color})
	if err != nil {
		handleZoneError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"zone": zoneToPayload(*zone)})
}

// UpdateZone 更新区域
func (a *API) UpdateZone(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区域ID")
		return
	}

	var payload zonePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	zone, err := a.zones.Update(id, service.ZoneInput{Name: payload.Name, Color: payload.Color})
	if err != nil {
		handleZoneError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"zone": zoneToPayload(*zone)})
}

// DeleteZone 删除区域
func (a *API) DeleteZone(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的区域ID")
		return
	}

	if err := a.zones.Delete(id); err != nil {
		handleZoneError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func zoneToPayload(zone db.HazardZone) gin.H {
	return gin.H{
		"id":    zone.ID,
		"uid":   zone.UID,
		"name":  zone.Name,
		"color": zone.Color,
	}
}

func handleZoneError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrZoneNotFound):
		respondError(c, http.StatusNotFound, "区域不存在")
	case errors.Is(err, service.ErrZoneExists):
		respondError(c, http.StatusBadRequest, "区域名称已存在")
	case errors.Is(err, service.ErrZoneInUse):
		respondError(c, http.StatusBadRequest, "区域仍被协议引用，无法删除")
	case errors.Is(err, service.ErrZoneInvalidInput):
		respondError(c, http.StatusBadRequest, "区域配置无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
