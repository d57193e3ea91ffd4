package types

// Trait is static capability metadata describing what resources a service
// needs. Traits are declared at registration time and are valid whether or
// not the service's engine ever loaded.
type Trait string

const (
	TraitInternet    Trait = "internet"    // performs network access
	TraitTranscoding Trait = "transcoding" // performs local transcoding
)

// Choice is one legal value in an enumerated option domain.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Range is an inclusive numeric option domain.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Transform converts a raw caller-supplied value into a domain value,
// reporting an error when the raw input cannot be converted.
type Transform func(raw any) (any, error)

// Option describes one option a service accepts. Exactly one of Choices or
// Range must be set; a nil Default marks the option as required.
type Option struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Choices   []Choice  `json:"choices,omitempty"`
	Range     *Range    `json:"range,omitempty"`
	Default   any       `json:"default,omitempty"`
	Transform Transform `json:"-"`
}

// ServiceInfo is the (id, display name) pair for a loaded service.
type ServiceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
