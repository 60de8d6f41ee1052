// ABOUTME: Package auth provides JWT tokens, password hashing and HTTP middleware
// ABOUTME: HS256 tokens carry the user's id, username and email claims

// Package auth authenticates API requests. Passwords are stored as
// bcrypt hashes; sessions are stateless HS256 JWTs verified by the
// bearer-token middleware.
package auth
