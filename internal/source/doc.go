// Package source opens byte streams for the decoder in internal/stream:
// streaming HTTP responses from the platform API and local log files
// followed through filesystem notifications. Each source is returned as an
// io.ReadCloser; closing it aborts the underlying transport and unblocks any
// in-flight read.
package source
