// Package api handles incoming HTTP requests, request validation and response
// formatting. It adapts HTTP calls to the site service and maps service and
// generation errors onto status codes and safe client messages.
package api
