package version

// Current defines the application version.
// It defaults to "dev" and is overwritten at build time using -ldflags.
var Current = "dev"

// Commit is the source revision, injected the same way as Current.
var Commit = "none"

const AppName = "digraph"
