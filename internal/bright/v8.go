package bright

import (
	"context"
	"fmt"
	"net/url"
)

// ClientV8 speaks the CMDaemon 8.x REST monitoring protocol. Latest data
// is a single GET; only the measurable lookup still goes through the RPC
// endpoint.
type ClientV8 struct {
	client *Client
}

// NewClientV8 creates an 8.x protocol adapter on top of a base client.
func NewClientV8(client *Client) *ClientV8 {
	return &ClientV8{client: client}
}

// Measurable looks up a monitoring measurable definition by name.
func (c *ClientV8) Measurable(ctx context.Context, name string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.client.call(ctx, rpcRequest{Service: "cmmon", Call: "getMonitoringMeasurable", Arg: name}, &out); err != nil {
		return nil, fmt.Errorf("get monitoring measurable %q: %w", name, err)
	}
	return out, nil
}

// LatestMeasurableData returns the most recent samples for a measurable,
// optionally scoped to one entity. A response without a data field means
// no samples.
func (c *ClientV8) LatestMeasurableData(ctx context.Context, measurable, node string) ([]map[string]interface{}, error) {
	query := url.Values{}
	query.Set("measurable", measurable)
	if node != "" {
		query.Set("entity", node)
	}

	var out struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.client.get(ctx, "/rest/v1/monitoring/latest", query, &out); err != nil {
		return nil, fmt.Errorf("get latest monitoring data for %q: %w", measurable, err)
	}
	return out.Data, nil
}

// MapMeasurable converts one raw latest-monitoring record into a
// HealthCheck.
func (c *ClientV8) MapMeasurable(raw map[string]interface{}) (*HealthCheck, error) {
	return mapLabeledRecord(raw)
}

// mapLabeledRecord is the stateless 8.x record mapper. The status comes
// from the value label; the age is reported by upstream and passed
// through untouched.
func mapLabeledRecord(raw map[string]interface{}) (*HealthCheck, error) {
	if raw == nil {
		return nil, nil
	}

	label, ok := raw["value"].(string)
	if !ok {
		return nil, fmt.Errorf("latest record missing value: %v", raw)
	}
	status, err := statusFromLabel(label)
	if err != nil {
		return nil, err
	}
	timestamp, ok := toInt64(raw["time"])
	if !ok {
		return nil, fmt.Errorf("latest record missing time: %v", raw)
	}
	age, ok := toInt64(raw["age"])
	if !ok {
		return nil, fmt.Errorf("latest record missing age: %v", raw)
	}

	name, _ := raw["measurable"].(string)
	node, _ := raw["entity"].(string)

	return &HealthCheck{
		Name:       name,
		Status:     status,
		Node:       node,
		Timestamp:  timestamp,
		SecondsAgo: age,
		Raw:        raw,
	}, nil
}
