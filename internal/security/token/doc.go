// Package token issues and validates the signed identity tokens that scope
// every task operation to its owner.
//
// Tokens are compact JWS strings signed with HMAC-SHA256 over a shared
// secret. Validation is pure and stateless: there is no server-side token
// store and no revocation, only the embedded expiry.
package token
