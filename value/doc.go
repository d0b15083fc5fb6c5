// Package value implements the compact tagged-union container used to store
// property values.
//
// A Value holds exactly one payload whose interpretation is fixed by its Kind.
// Inline kinds (numbers, booleans, enums, colors, time stamps, type handles)
// live in the container itself and never own anything. Buffer kinds (strings,
// geometry structs and arrays) reference a Buffer obtained from an Allocator.
// Counted kinds (objects, boxed primitives, theme resources) hold a reference
// to an Object with AddRef/Release semantics.
//
// Ownership is explicit. A container either owns its payload, in which case
// Destroy releases it exactly once, or it is a view that aliases a payload
// owned elsewhere:
//
//	owned := value.FromString("caption")   // owns its buffer
//	view := owned.View()                  // aliases, never releases
//	clone, err := owned.Clone()           // independent copy, owns
//	owned.Destroy()                       // view must not be used after this
//
// Per-kind behaviour (release, duplicate, compare, null test) is dispatched
// through a table indexed by Kind. The table is pinned to the number of kinds
// at compile time and every slot is verified when the package initialises.
//
// Values are not safe for concurrent use; callers keep a value on the
// goroutine that owns the enclosing object.
package value
