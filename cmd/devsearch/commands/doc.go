// Package commands defines the devsearch CLI and wires dependencies for subcommands.
//
// Commands
//
//   - search <query>     Search accounts; --fav N favorites the N-th hit
//   - search --watch     Read queries from stdin, debounced
//   - profile <login>    Show a profile and its latest repositories
//   - fav list           List favorites (table, json or yaml)
//   - fav add <login>    Favorite an account by login
//   - fav rm <id>        Remove a favorite
//   - fav has <id>       Report whether an id is a favorite
//   - fav count          Print the number of favorites
//   - fav clear          Remove all favorites after confirmation
//
// # Implementation
//
// The root command loads configuration, builds the dependency graph (storage,
// favorites store, GitHub client, services) and installs the favorites scope
// on the command context before any subcommand runs. Subcommands reach the
// store with favorites.Resolve(cmd.Context()). The graph is closed once the
// command returns, flushing any pending favorites write.
package commands
