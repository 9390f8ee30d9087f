// Package cli provides the interactive blog client.
//
// It wires configuration, the local key-value store, the credential registry,
// the session store, the posts repository and the analytics aggregator into a
// REPL. Every command maps to a navigable route and is checked by the auth
// guard before it runs: guarded views send an anonymous user to login, and
// login/register send an authenticated user to the dashboard.
//
// Commands:
//   - register / login / logout / whoami
//   - dashboard, list, show <id>
//   - create, edit <id>, delete <id>
//   - fav <id>, favorites, clearfav
//   - analytics [page], pending
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
