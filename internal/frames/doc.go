// Package frames decodes recorded sensor logs into in-memory frame
// collections.
//
// Two record-oriented binary formats are supported, both little-endian
// with no delimiters between records:
//
//	record    = timestamp(u64 ms) count(u32) element*count
//	lidar     = x y z (f32) reflectivity (u32) cluster (i32)          20 bytes
//	detection = class (i32) nearest xyz, min xyz, max xyz (f32) distance size (f32)  48 bytes
//
// Decoding tolerates local corruption: empty-marker and implausibly
// timestamped records are skipped, and a truncated payload ends the file
// while keeping every frame decoded before it. Detection files additionally
// stop at a record whose count exceeds MaxObjectCount.
package frames
