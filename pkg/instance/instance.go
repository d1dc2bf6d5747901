package instance

import "os"

// GetID identifies the running API process in logs. The platform dyno name
// wins over the container hostname.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
