// Package writer bridges byte streams to the io package.
//
// Sink adapts an io.Writer into a stream byte sink with internal buffering:
// chunks accumulate until a size threshold or flush interval is reached, so
// fine-grained stream writes do not translate into fine-grained writes on
// the underlying writer. FromReader is the inverse adapter, turning an
// io.Reader into a stream of byte chunks.
package writer
