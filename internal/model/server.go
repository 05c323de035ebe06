package model

// Server occupies one slot of a rack. Hostname and serial number are
// unique across the datacenter.
type Server struct {
	ServerID     int64  `json:"server_id"`
	RackID       int64  `json:"rack_id"`
	Hostname     string `json:"hostname"`
	SerialNumber string `json:"serial_number"`
	Slot         int    `json:"slot"`
	RackLabel    string `json:"rack_label,omitempty"`
	AisleLabel   string `json:"aisle_label,omitempty"`
}

type Rack struct {
	RackID     int64  `json:"rack_id"`
	AisleID    int64  `json:"aisle_id"`
	Label      string `json:"label"`
	MaxServers int    `json:"max_servers"`
}

type Aisle struct {
	AisleID int64  `json:"aisle_id"`
	Label   string `json:"label"`
}

// Cell is one square of the room grid. RackID is zero for free cells.
type Cell struct {
	X      int   `json:"x"`
	Y      int   `json:"y"`
	IsRack bool  `json:"is_rack"`
	RackID int64 `json:"rack_id,omitempty"`
}
