package helpers

import "time"

// IntSecondDefault converts config seconds, zero or negative means def.
func IntSecondDefault(x int, def time.Duration) time.Duration {
	if x <= 0 {
		return def
	}
	return time.Duration(x) * time.Second
}
