// Package internalcheck holds source-level policy tests for the fhe
// packages. It has no API.
package internalcheck
