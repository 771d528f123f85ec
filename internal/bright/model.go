package bright

import (
	"encoding/json"
	"fmt"
	"math"
)

// Status is the normalized state of a health check sample. Ordinal
// values match the rate codes CMDaemon 7.x reports; names match the
// labels CMDaemon 8.x reports.
type Status int

const (
	StatusPass Status = iota
	StatusUnknown
	StatusFail
)

var statusNames = [...]string{"PASS", "UNKNOWN", "FAIL"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalJSON renders the status as its label.
func (s Status) MarshalJSON() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return json.Marshal(statusNames[s])
}

// statusFromRate coerces a 7.x numeric rate to a Status by ordinal.
func statusFromRate(rate float64) (Status, error) {
	ordinal := int(math.Round(rate))
	if ordinal < 0 || ordinal >= len(statusNames) {
		return 0, fmt.Errorf("unmappable status rate %v", rate)
	}
	return Status(ordinal), nil
}

// statusFromLabel coerces an 8.x status label to a Status by name.
func statusFromLabel(label string) (Status, error) {
	for i, name := range statusNames {
		if name == label {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unmappable status label %q", label)
}

// HealthCheck is one normalized health measurement for a node. Raw keeps
// the unmodified upstream record for diagnostics.
type HealthCheck struct {
	Name       string                 `json:"name"`
	Status     Status                 `json:"status"`
	Node       string                 `json:"node"`
	Timestamp  int64                  `json:"timestamp"`
	SecondsAgo int64                  `json:"seconds_ago"`
	Raw        map[string]interface{} `json:"raw"`
}

// Upstream payloads decode with json.Number so 64-bit unique keys stay
// intact; the mappers also accept plain Go numbers.

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func toInt64(v interface{}) (int64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
