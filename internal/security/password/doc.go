// Package password implements the credential store's hashing and policy
// surface: Argon2id with PHC-encoded hashes, plus minimal password
// validation applied at registration time.
package password
