// Package secret resolves credentials referenced from configuration values.
//
// A value may contain ${VAR} references, expanded strictly from the
// environment, and secretref:<provider>:<ref> references resolved by a
// registered Provider:
//
//	HOTCACHE_REDIS_PASSWORD=secretref:file:/run/secrets/redis_password
//	HOTCACHE_REDIS_ADDR=redis://${REDIS_HOST}:6379/0
//
// Resolved values are never logged.
package secret
