// Package constants holds identifiers shared between configuration and infrastructure.
package constants

// Event publisher providers accepted in pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
