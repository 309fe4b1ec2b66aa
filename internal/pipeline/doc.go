// Package pipeline chains an archive codec and a cipher codec through a staging file.
//
// Encryption archives the source into a temporary file and then encrypts that
// file into the destination. Decryption decrypts the source into a temporary
// file and then unpacks it at the destination. An optional estimator reports
// progress on a 0-255 scale by polling the size of whatever the current stage
// is writing. The values are an approximation derived from file sizes, not an
// exact count of processed bytes.
package pipeline
