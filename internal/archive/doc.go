// Package archive turns a file or directory into a single byte stream and back.
//
// Directories are written as tar archives, optionally gzip compressed.
// A plain file is copied as-is without any framing, and a stream that is not
// recognised as an archive is restored as a plain file.
package archive
