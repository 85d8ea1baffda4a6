// Package config is the durable key/value store backing the client's
// persisted settings. Values survive restarts through a YAML file; keys
// without a stored value fall back to registered defaults.
package config

// Keys owned by the connection core.
const (
	KeyDomainURL       = "domain.url"
	KeyDefaultProtocol = "domain.defaultProtocol"
	KeyDefaultPort     = "domain.defaultPort"
	KeyMetaverseURL    = "metaverse.url"
)

// UnknownValue marks a setting that has never been written.
const UnknownValue = "UNKNOWN"

// Defaults returns the default values applied when a key has never been
// persisted.
func Defaults() map[string]string {
	return map[string]string{
		KeyDomainURL:       UnknownValue,
		KeyDefaultProtocol: "wss://",
		KeyDefaultPort:     "40102",
		KeyMetaverseURL:    "https://metaverse.worldmesh.io/live",
	}
}
