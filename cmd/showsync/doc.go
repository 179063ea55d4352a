// Command showsync is the CLI for the showsync daemon: it inspects the
// tracked library, requests syncs, and manages configuration.
package main
