// Package encryption provides the streaming cipher codecs used to seal archive streams.
// AES-256-CBC with an OpenSSL-compatible "Salted__" header, or a ChaCha20 keystream.
// Both derive their key material from a key file through PBKDF2-HMAC-SHA256.
package encryption
