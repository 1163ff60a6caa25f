package instance

import "github.com/camisetia/storefront/pkg/env"

// GetID returns the identifier of this process: the Heroku dyno name, the
// container hostname, or "local".
func GetID() string {
	return env.Get("DYNO", env.Get("HOSTNAME", "local"))
}
