// Package app is the composition root for camview.
//
// # Overview
//
// Bootstrap wires the pieces every shell needs:
//
//  1. Load preferences from ~/.config/camview/prefs.toml
//  2. Resolve the config store (~/.mcp-camera/config.json)
//  3. Open the JSON activity log next to the config file
//  4. Build the camera client with the preferred HTTP timeout
//  5. Wrap it in the service layer that validates input and tracks state
//
// Run adds the Bubble Tea UI on top and blocks until the user quits or the
// context is cancelled. The CLI and the HTTP bridge call Bootstrap directly
// and drive the same Service.
//
// # Data Flow
//
//	┌──────────────┐
//	│ Bootstrap()  │
//	└──────┬───────┘
//	       │
//	       ├─────> prefs.Load()        Theme, timeout, radius, log level
//	       ├─────> config.NewStore()   API key and endpoint
//	       ├─────> logging.OpenFile()  Activity log
//	       ├─────> camera.NewClient()  JSON-RPC client
//	       └─────> service.New()       Shell-facing operations
//
// # Error Handling
//
// Only an unresolvable config path or an unwritable log file stop startup.
// A missing or malformed config file, or a stored endpoint that is not an
// http(s) URL, starts with defaults and a warning in the activity log.
package app
