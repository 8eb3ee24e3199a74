// Package server owns the lifecycle of the HTTP listener.
//
// A Bootstrap binds host:port, serves a handler in the background and shuts
// down gracefully. It moves through Stopped, Starting and Running; any failure
// while starting returns it to Stopped. Run adds SIGINT/SIGTERM handling on
// top of Start and Shutdown for use from main.
package server
