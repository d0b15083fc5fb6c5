package props

import "encoding/json"

// Trace lists every layer that could contribute to a property's effective
// value, highest precedence first, and which one won.
type Trace struct {
	Object   string       `json:"object"`
	Property string       `json:"property"`
	Winner   string       `json:"winner"`
	Layers   []Provenance `json:"layers"`
}

// Provenance is one layer of a Trace.
type Provenance struct {
	Layer  string          `json:"layer"`
	Source BaseValueSource `json:"source"`
	Kind   string          `json:"kind,omitempty"`
	Value  any             `json:"value,omitempty"`
	Found  bool            `json:"found"`
}

// Layer names used in traces.
const (
	LayerAnimation = "animation"
	LayerBase      = "base"
	LayerInherited = "inherited"
	LayerDefault   = "default"
)

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON decodes a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Found returns the winning layer.
func (t Trace) Found() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Layer == t.Winner && layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}
