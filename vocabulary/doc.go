// Package vocabulary selects the index terms that receive term vectors.
//
// A term is kept when it occurs in at least one configured field, its
// aggregate frequency over those fields lies within [MinFrequency,
// MaxFrequency] and it has at most MaxNonAlphabetChars non-letter runes.
package vocabulary
