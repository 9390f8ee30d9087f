// Package models defines the client-side data model: registered
// credentials, the active session, posts and post drafts.
package models
