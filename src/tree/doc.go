// Package tree implements the attribute trees shared by partial views and
// composite snapshots.
//
// Schema
//
// Every entity kind declares a Schema: an ordered list of fields per object,
// leaf types, and for lists the path of the sub-identity used to pair
// elements. Traversals (merge, diff, projection, dump) follow the declared
// order, never the order in which a payload happened to list its keys, so
// their output is deterministic.
//
// Absence
//
// A field that a source did not supply is simply missing from the tree. A
// present leaf always holds a string, an int64 or a bool; there is no zero
// value standing in for "unknown".
//
// Provenance
//
// Objects and leaves carry the source.Tag of the view that supplied them.
// Lists carry no tag of their own; their elements are objects and do.
//
// Dumps
//
// Encode turns a Snapshot into plain nested maps. Objects carry "_source",
// the root also carries "_key". A leaf whose tag differs from its parent
// object's is written as {"_source": tag, "_value": v}. Decode reverses this
// exactly, and MarshalDump/UnmarshalDump move dumps through canonical JSON.
package tree
