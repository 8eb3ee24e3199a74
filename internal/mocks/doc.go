// Package mocks provides shared mock implementations for tests.
//
// Instead of defining inline fakes in each test file, packages that need a
// generation.Generator can reuse MockGenerator:
//
//	gen := mocks.NewMockGeneratorWithSite(&generation.Site{HTML: "<h1>hi</h1>"})
//	svc, _ := service.NewSiteService(gen, writer, service.Options{}, logger)
//	...
//	assert.Equal(t, 1, gen.Calls())
package mocks
