// Package redis opens the go-redis client that backs session.RedisStore,
// and exposes health check and shutdown hooks for it.
package redis
