// Package app wires application dependencies for the CLI.
//
// It loads Config through viper, builds the storage backend, the favorites
// store and its scope, the GitHub client and the high-level services, and
// exposes them via the App struct. One App is built per process; its
// favorites store is the only one that exists for the session.
package app
