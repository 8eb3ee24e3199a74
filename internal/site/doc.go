// Package site writes generated websites to the output directory and exposes
// that directory for static serving.
//
// All filesystem access goes through an afero.Fs so the writer can run against
// the OS filesystem in production and an in-memory filesystem in tests.
package site
