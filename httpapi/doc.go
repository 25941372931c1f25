// Package httpapi is the HTTP boundary over the authcore engine.
//
// Bodies are JSON on both sides; failures use a single {"error": msg}
// shape. The session token is carried in an HttpOnly cookie set on
// login and cleared on logout. Structural-versus-incorrect credential
// distinctions survive to the status code (400 vs 401), but no response
// ever reveals whether a specific email is registered.
package httpapi
