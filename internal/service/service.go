// Package service contains the consultas facade.
//
// It sits between the handler and repository layers: every canned
// query runs under the configured timeout, goes through the Redis
// read-through cache when enabled and is logged when it turns slow.
// Writes invalidate the cache and publish an order event.
package service
