// Package common contains shared constants and sentinel errors used across
// shopkeeper components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// AdminUserType is the user_type label that grants administrative rights.
// Matching is exact and case-sensitive.
const AdminUserType = "Admin"

// MinPasswordLength is the shortest password accepted on registration.
const MinPasswordLength = 8
