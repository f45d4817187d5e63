// Package google provides OAuth2 configuration and per-account token storage
// for the Google Docs and Drive APIs.
//
// Tokens live in one file per account (google-<account>.token) under the user
// cache directory. The TokenProvider interface lets clients obtain tokens
// without knowing where they come from.
package google
