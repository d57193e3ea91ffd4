package types

// SayRequest is the POST /v1/say body.
type SayRequest struct {
	Service string         `json:"service"`
	Text    string         `json:"text"`
	Options map[string]any `json:"options,omitempty"`
}

// SayResponse reports the cache path of the synthesized artifact.
type SayResponse struct {
	Path string `json:"path"`
}

// ServicesResponse lists every service that loaded successfully.
type ServicesResponse struct {
	Services []ServiceInfo `json:"services"`
}

// OptionsResponse is the declared option schema of one service.
type OptionsResponse struct {
	Service string   `json:"service"`
	Options []Option `json:"options"`
}

// DescResponse is the human-readable description of one service.
type DescResponse struct {
	Service string `json:"service"`
	Desc    string `json:"desc"`
}

// TraitResponse lists display names of services advertising a trait.
type TraitResponse struct {
	Trait    string   `json:"trait"`
	Services []string `json:"services"`
}

// ErrorResponse is the JSON payload of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
