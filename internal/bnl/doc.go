// Package bnl reads and rewrites BNL asset containers.
//
// A BNL file is a 40-byte header followed by one zlib stream. The header
// locates four sections inside the combined header+body buffer:
//
//	asset-description  fixed 160-byte AssetRecord rows
//	view-list          ViewLists: (offset, size) runs into the raw buffer
//	raw-buffer         resource bytes, possibly fragmented and shared
//	descriptor         type-specific descriptor bytes
//
// An asset's resource is the concatenation of the raw-buffer ranges named by
// its ViewList; VirtualResource reads it as one contiguous range. Typed
// parsing is delegated to a Codec, which receives the descriptor bytes and a
// VirtualResource.
//
// Mutations are in place only. A resource can be overwritten with data of the
// same length, and a descriptor can be replaced by one that is no larger.
// Nothing is ever relocated.
package bnl
