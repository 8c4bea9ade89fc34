// Package testsupport provides test-only helpers: a configuration builder with
// isolated temp directories and a fake game-statistics API server.
package testsupport
