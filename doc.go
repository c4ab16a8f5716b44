// Package fluxion provides the item envelope, error taxonomy, timestamp
// contracts, and runtime abstractions shared by every stream operator in the
// module. Concrete operators live in the sibling packages: ops (single
// stream), multistream, timeops, subject, adapters, and merge.
//
// A stream in this library is a receive-only channel of StreamItem[T]. Every
// operator is a function that takes one or more such channels and a
// context.Context, spawns a single coordinating goroutine, and returns a new
// output channel immediately. Cancellation is cooperative: cancel the
// supplied context and drain (or abandon) the returned channel.
package fluxion
