// Package config persists the camera service credential and endpoint.
//
// # Overview
//
// The configuration is a single JSON document stored at
// ~/.mcp-camera/config.json:
//
//	{
//	  "apiKey": "mcp_live_...",
//	  "apiUrl": "https://api-dev.mcp.camera/api/v1/mcp",
//	  "lastUpdated": "2026-03-01T12:00:00Z"
//	}
//
// apiKey is null until a key is registered or entered. apiUrl always holds a
// non-empty value; blank values fall back to DefaultAPIURL.
//
// # Loading
//
// Load is best effort. A missing file yields defaults silently; an
// unreadable or malformed file yields defaults and a warning on the store's
// logger. Loading never fails.
//
// # Saving
//
// Save creates the directory when needed, stamps lastUpdated with the
// current UTC time, and overwrites the whole file in one write. There is no
// merge and no version field. Concurrent writers are not coordinated; the
// last write wins.
//
// # Ownership
//
// Store keeps no cached Configuration. Callers load a value, pass it where
// it is needed, and hand the modified value back to SetAPIKey, SetAPIURL or
// Save, which return the stamped copy.
package config
