// Package timeouts defines shared timeout constants used by the HTTP surface
// and its backing stores.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreOpen caps the initial connectivity check against a session store.
const StoreOpen = 3 * time.Second

// StoreOp caps a single session store read or write.
const StoreOp = 2 * time.Second

// WebsocketWrite caps a single websocket frame write.
const WebsocketWrite = 10 * time.Second

// WebsocketPong is how long a websocket peer may stay silent before the
// connection is considered dead.
const WebsocketPong = 60 * time.Second
