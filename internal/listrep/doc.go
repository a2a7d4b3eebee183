// Package listrep implements list values made of reference-counted elements stored in shared stores.
//
// A store is a flat array of slots, only the slots in [firstUsed, firstUsed+numUsed) hold elements.
// Several lists can share a store: a list either covers all the used slots or a sub-range of them
// through a span. Lists are copy-on-write: a mutation of a list whose store is shared copies the
// elements to a new store, otherwise the store is modified in place and the free slots at the front
// and at the back are used to avoid moving elements.
//
// Lists can also be abstract (lazy): arithmetic series, reversed views and repeated lists compute their
// elements on demand and are converted to a list with a store by the first mutation.
package listrep
