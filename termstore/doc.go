// Package termstore holds the term vectors produced by a build.
package termstore
