/*
Package pack implements a compact, schema-checked binary codec for Go values.

A message is a list of arguments packed back to back after a header:

	[4 bytes type code]
	[8 bytes total length]  only when the type code's low bit is set
	[payload]

All integers are little-endian. The type code is derived from the structure
of the argument types, so a reader built from a different schema rejects the
message instead of misreading it. Scalars take their natural width (int and
uint take 8 bytes), strings and slices a 4-byte count followed by their
elements, pointers a presence byte, and structs their exported fields in
declaration order with no padding.

	b, err := pack.Serialize(order, items)
	...
	var o Order
	var it []Item
	err = pack.DeserializeTo(b, &o, &it)

Fields may be added to the end of the last argument without breaking older
readers by declaring them as Compatible:

	type Order struct {
		ID    uint64
		Price float64
		Note  pack.Compatible[string]
	}

Messages carrying a Compatible field also store their total length, which
lets older readers skip what they do not know.
*/
package pack
