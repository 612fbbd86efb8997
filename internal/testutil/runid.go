package testutil

// DefaultRunID is returned by a FixedRunIDGenerator built with an empty ID.
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator returns the same run ID on every call.
//
// engine.FixedGenerator hands out a list of IDs once each; this one never
// runs out, which suits tests that record any number of runs under one ID
// and compare the store contents against a golden file.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator returns a generator for id, or DefaultRunID when id
// is empty.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate implements engine.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
