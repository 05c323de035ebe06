package dto

import (
	"rackops-backend/internal/layout"
	"rackops-backend/internal/model"
)

type ServerCreateRequest struct {
	RackID       int64  `json:"rack_id,omitempty"`
	RackLabel    string `json:"rack_label,omitempty"`
	Hostname     string `json:"hostname"`
	SerialNumber string `json:"serial_number"`
	Slot         *int   `json:"slot,omitempty"`
}

type ServerCreateResponse struct {
	ServerID  int64  `json:"server_id"`
	RackLabel string `json:"rack_label"`
	Hostname  string `json:"hostname"`
	Slot      int    `json:"slot"`
}

type ServerListResponse struct {
	Servers []model.Server `json:"servers"`
}

type RackOccupancy struct {
	Label      string `json:"label"`
	Occupied   int    `json:"occupied"`
	MaxServers int    `json:"max_servers"`
}

type AisleOverview struct {
	Label string          `json:"label"`
	Racks []RackOccupancy `json:"racks"`
}

type RackOverviewResponse struct {
	Aisles []AisleOverview `json:"aisles"`
}

type RackDetailResponse struct {
	Label string        `json:"label"`
	Slots []layout.Slot `json:"slots"`
}

type PathResponse struct {
	ServerID int64          `json:"server_id"`
	Hostname string         `json:"hostname"`
	Start    layout.Point   `json:"start"`
	Goal     layout.Point   `json:"goal"`
	Path     []layout.Point `json:"path"`
}
