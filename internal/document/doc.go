// Package document turns caller input into a parsed HTML tree.
//
// Text, byte slices and open readers are all wrapped in a Source and funnelled
// through a single parsing routine, so a document counts the same no matter
// how it was handed in. That routine:
//   - enforces MaxDocumentSize
//   - transparently decompresses gzip input
//   - rejects content that does not sniff as text (images, archives, ...)
//   - converts legacy charsets to UTF-8
//   - parses the result with htmlquery
//
// Any failure is reported as ErrDocumentParse.
package document
