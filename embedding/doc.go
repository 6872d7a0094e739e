// Package embedding reads and writes dense word-embedding tables in the
// binary word2vec layout:
//
//	<size> <dims>\n
//	<name> <float32 x dims>\n
//	...
//
// Floats are little-endian IEEE 754 single precision. The package includes:
//   - Table: an ordered token -> vector mapping
//   - Decode / Encode over io.Reader and io.Writer
//   - DecodeFile / EncodeFile over an afero filesystem
//   - EncodeVector / DecodeVector for headerless vector BLOBs
package embedding
