// Package identity is the credential store: it creates accounts with
// securely hashed passwords and verifies email/password pairs. It performs
// no token work; callers pass verified identities to the token manager.
package identity
