// Package reqdata gives each active plugin a private slot of data attached
// to an in-flight request. The mapping lives on the request object itself,
// so its lifetime equals the request's and there is no cross-request
// sharing.
package reqdata

import "github.com/google/uuid"

// Carrier is the contract a host request object fulfills: attachment of one
// arbitrary plugin-data mapping whose lifetime equals the request's.
type Carrier interface {
	// PluginData returns the attached mapping, or nil if none has been
	// attached yet.
	PluginData() map[string]any

	// SetPluginData attaches the mapping to the request.
	SetPluginData(data map[string]any)
}

// Set stores a value for a plugin on the request, creating the per-request
// mapping on first write.
func Set(c Carrier, pluginID string, value any) {
	data := c.PluginData()
	if data == nil {
		data = make(map[string]any)
		c.SetPluginData(data)
	}
	data[pluginID] = value
}

// Get returns the value a plugin stored on the request. The second result is
// false when no mapping exists yet or the plugin never wrote to this
// request; absence is not an error.
func Get(c Carrier, pluginID string) (any, bool) {
	data := c.PluginData()
	if data == nil {
		return nil, false
	}

	value, ok := data[pluginID]
	return value, ok
}

// Request is a ready-made Carrier for hosts and tests that have no request
// type of their own. Each request gets a unique ID for logging and tracing.
type Request struct {
	id   string
	data map[string]any
}

// NewRequest creates a request handle with a fresh UUID.
func NewRequest() *Request {
	return &Request{id: uuid.NewString()}
}

// ID returns the request's unique identifier.
func (r *Request) ID() string {
	return r.id
}

// PluginData returns the attached plugin-data mapping, if any.
func (r *Request) PluginData() map[string]any {
	return r.data
}

// SetPluginData attaches the plugin-data mapping.
func (r *Request) SetPluginData(data map[string]any) {
	r.data = data
}
