// Package schema defines the composition tree: Timeline, Collection, Stack,
// Track and the Item variants Clip, Gap and Transition.
//
// Ownership is strictly downward. A Timeline owns its Stack, a Stack owns its
// Tracks, a Track owns its Items, and a Clip owns its MediaReference. Nothing
// stores a pointer to its parent; an item's position in time is recomputed
// from its index in the owning Track. Clone deep-copies a subtree, so two
// trees never share an item.
//
// Items are validated when they enter a Track (non-negative, computable
// duration). Mutating an item after inserting it is not supported; build a
// new tree instead.
package schema
