// Package wire defines the request and response messages exchanged with
// Delos platform services, plus a registry of the RPC surfaces the client
// knows how to speak. Messages are plain structs serialized with the JSON
// codec in internal/rpc; field names and enum numbering mirror the service
// protobuf definitions so the same payloads round-trip against a real
// deployment.
package wire

import "fmt"

// Service describes the RPC surface of one remote service.
type Service struct {
	// Name is the fully qualified service name, e.g. "prompt.v1.PromptService".
	Name string

	// Methods lists the RPC methods the client may invoke on the service.
	Methods []string
}

// FullMethod returns the full method path used on the wire,
// e.g. "/prompt.v1.PromptService/GetPrompt".
func (s Service) FullMethod(method string) string {
	return "/" + s.Name + "/" + method
}

// HasMethod reports whether method is part of the service surface.
func (s Service) HasMethod(method string) bool {
	for _, m := range s.Methods {
		if m == method {
			return true
		}
	}
	return false
}

var registry = make(map[string]Service)

// register adds a service descriptor to the registry. It is called from
// init functions in this package and panics on duplicates, mirroring how
// database/sql treats driver registration.
func register(s Service) {
	if _, dup := registry[s.Name]; dup {
		panic(fmt.Sprintf("wire: duplicate registration for service %q", s.Name))
	}
	registry[s.Name] = s
}

// Lookup resolves a service descriptor by fully qualified name. The boolean
// is false when no wire support for that service is compiled into the client,
// which callers surface before any connection is attempted.
func Lookup(name string) (Service, bool) {
	s, ok := registry[name]
	return s, ok
}

// Registered returns the names of all registered services.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
