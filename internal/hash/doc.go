// Package hash routes terms to parallel build workers.
package hash
