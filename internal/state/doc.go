// Package state holds the session snapshot shared by the camview shells.
//
// # Overview
//
// The snapshot records the API key lifecycle (unset, set, valid, invalid),
// the operation in flight, and the outcome of the last one. The service
// layer writes it; the TUI header and status line read it.
//
// # Serial operations
//
// Begin refuses a second operation while one is running, which keeps the
// one-outstanding-request model regardless of which shell drives the
// service. Every successful Begin must be paired with Finish.
//
//	if !store.Begin("search") {
//		return errBusy
//	}
//	res, err := client.SearchCameras(ctx, lat, lng, radius, nil)
//	store.Finish("search", err)
//
// # Key lifecycle
//
// An invalid key is never cleared automatically. The user replaces it
// through the settings screen or by registering again.
//
// The zero Store is ready to use and safe for concurrent access.
package state
