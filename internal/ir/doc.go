// Package ir provides the value model shared by every other lisql package.
//
// This package contains the scalar value types a generated statement can
// embed, conversions from plain Go values, and the canonical JSON encoding
// used for content-addressed statement IDs. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Value is sealed: only Null, Text, Int, Float, Bool, Blob and List
//     implement it
//   - List holds scalars only, lists never nest
//   - Canonical JSON sorts object keys by UTF-16 code units and NFC
//     normalizes strings
package ir
