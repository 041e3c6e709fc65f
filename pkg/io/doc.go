// Package io renders completed boxes for people and programs.
//
// [WriteText] produces the canonical human-readable format: every padded line
// in double quotes, the concatenation of all lines in single quotes and a
// dashed separator. It is the format appended to output files.
//
// [WriteJSON] encodes a [Document] describing one run (input, box size and
// every box with its scores). [MarshalBoxes] and [UnmarshalBoxes] are the
// compact codec used by the result cache; decoding rebuilds every box through
// [box.FromLines], so corrupted or hand-edited entries are rejected instead of
// being trusted.
package io
