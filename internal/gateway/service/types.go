package service

// Meta is the reply for GET /: service identity plus the endpoint
// price/description table.
type Meta struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Mode      string         `json:"mode"` // "free" or "paid"
	Endpoints []EndpointMeta `json:"endpoints"`
}

// EndpointMeta describes one public endpoint.
type EndpointMeta struct {
	Path        string `json:"path"`
	Price       string `json:"price,omitempty"` // decimal currency string, empty when free
	Description string `json:"description"`
}
