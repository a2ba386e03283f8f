// Package testutil provides seeded fixtures for tests and benchmarks:
// elemental vectors, encoded doc-vector streams and random corpora.
//
//	rng := testutil.NewRNG(4711)
//	docs := rng.ElementalVectors(100, vector.TypeReal, 200, 10)
//	data, err := testutil.DocStream("-vectortype real -dimension 200", docs)
package testutil
