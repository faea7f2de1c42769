// Package stream turns a live byte stream into a bounded, ordered window of
// text lines. It is the shared core behind every live log view in vantage:
// the decoder reads chunks from an io.ReadCloser, splits on newlines while
// keeping multi-byte runes intact across chunk boundaries, and retains only
// the most recent lines up to a caller-supplied bound.
package stream
