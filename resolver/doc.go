// Package resolver loads a scenario document from disk and resolves every
// $ref it contains into a fully materialized tree with no remaining $ref
// keys.
//
// A $ref string has the form "[file_path][#json_pointer]". The file path,
// when present, is resolved relative to the referring file and must remain
// under the configured root path within max_parent_traversal_depth upward
// segments. The pointer, when present, is applied to the referenced
// document per RFC 6901. When the object containing $ref carries sibling
// keys, the resolved value and the sibling value are deep-merged: mappings
// merge recursively, lists replace entirely, scalars are taken from the
// sibling. Resolution proceeds bottom-up so merges always see concrete
// values, and a set of active (file, pointer) frames detects cycles.
package resolver
