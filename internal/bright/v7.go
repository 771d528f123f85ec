package bright

import (
	"context"
	"fmt"
	"time"
)

// ClientV7 speaks the CMDaemon 7.x RPC protocol. Fetching the latest
// data for a measurable takes three round-trips: the measurable and the
// device resolve to unique keys first, then the rates call fetches the
// samples.
type ClientV7 struct {
	client *Client
	now    func() time.Time
}

// NewClientV7 creates a 7.x protocol adapter on top of a base client.
func NewClientV7(client *Client) *ClientV7 {
	return &ClientV7{client: client, now: time.Now}
}

// Measurable looks up a health check definition by name.
func (c *ClientV7) Measurable(ctx context.Context, name string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.client.call(ctx, rpcRequest{Service: "cmmon", Call: "getHealthcheck", Arg: name}, &out); err != nil {
		return nil, fmt.Errorf("get healthcheck %q: %w", name, err)
	}
	return out, nil
}

func (c *ClientV7) device(ctx context.Context, node string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.client.call(ctx, rpcRequest{Service: "cmdevice", Call: "getDevice", Arg: node}, &out); err != nil {
		return nil, fmt.Errorf("get device %q: %w", node, err)
	}
	return out, nil
}

// LatestMeasurableData returns the most recent samples for a measurable
// on a node. When either name is unknown upstream the result is empty
// and the rates call is skipped.
func (c *ClientV7) LatestMeasurableData(ctx context.Context, measurable, node string) ([]map[string]interface{}, error) {
	m, err := c.Measurable(ctx, measurable)
	if err != nil {
		return nil, err
	}
	device, err := c.device(ctx, node)
	if err != nil {
		return nil, err
	}

	measurableID := m["uniqueKey"]
	entityID := device["uniqueKey"]
	if measurableID == nil || entityID == nil {
		return nil, nil
	}

	req := rpcRequest{
		Service: "cmmon",
		Call:    "getLatestPickedRates",
		Args: []interface{}{
			[]interface{}{entityID},
			[]interface{}{map[string]interface{}{"metricId": measurableID}},
		},
	}
	var rates []map[string]interface{}
	if err := c.client.call(ctx, req, &rates); err != nil {
		return nil, fmt.Errorf("get latest picked rates for %q: %w", measurable, err)
	}

	for _, rate := range rates {
		rate["measurable"] = measurable
		rate["entity"] = node
	}
	return rates, nil
}

// MapMeasurable converts one raw rate record into a HealthCheck.
func (c *ClientV7) MapMeasurable(raw map[string]interface{}) (*HealthCheck, error) {
	return mapRateRecord(raw, c.now())
}

// mapRateRecord is the stateless 7.x record mapper. The status is the
// rate rounded to the nearest enum ordinal; the age is computed against
// now because 7.x reports no age of its own.
func mapRateRecord(raw map[string]interface{}, now time.Time) (*HealthCheck, error) {
	if raw == nil {
		return nil, nil
	}

	rate, ok := toFloat(raw["rate"])
	if !ok {
		return nil, fmt.Errorf("rate record missing rate: %v", raw)
	}
	status, err := statusFromRate(rate)
	if err != nil {
		return nil, err
	}
	timestamp, ok := toInt64(raw["timeStamp"])
	if !ok {
		return nil, fmt.Errorf("rate record missing timeStamp: %v", raw)
	}

	name, _ := raw["measurable"].(string)
	node, _ := raw["entity"].(string)

	return &HealthCheck{
		Name:       name,
		Status:     status,
		Node:       node,
		Timestamp:  timestamp,
		SecondsAgo: now.Unix() - timestamp,
		Raw:        raw,
	}, nil
}
