// Package favorites keeps the user's favorited accounts.
//
// A Store holds the ordered, id-unique collection in memory and writes the
// full collection through its Persister after every mutation. The Adapter is
// the durable Persister: it encodes the collection as a JSON array under a
// fixed key of a domain.KeyValueStore and turns every storage failure into a
// logged, safe default. Consumers reach the single live Store either through
// an explicitly passed handle or through a Scope installed in a
// context.Context; resolving outside a scope panics with *OutOfScopeError.
package favorites
