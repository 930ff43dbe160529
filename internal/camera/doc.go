// Package camera provides a JSON-RPC client for the camera network service.
//
// # Overview
//
// Every remote operation is a named tool invoked through a single HTTP POST:
//
//	{"jsonrpc":"2.0","id":<millis>,"method":"tools/call",
//	 "params":{"name":"get_camera","arguments":{"cameraId":"abc"}}}
//
// The reply carries either a result envelope ({"content":[{"text":...}]}) or
// an error member. Camera fields are not modelled; results are free text and
// ImageURL is the only place that reads structure out of them.
//
// # Architecture
//
//   - client.go: Client, tool wrappers, key registration and image download
//   - types.go: wire envelopes and the ToolResult payload
//   - errors.go: the failure taxonomy returned to callers
//
// # Client Usage
//
//	store, _ := config.NewStore("", logger)
//	client, err := camera.NewClient(camera.Options{
//		Config: store.Load(),
//		Store:  store,
//		Logger: logger,
//	})
//	if err != nil {
//		return err
//	}
//	res, err := client.SearchCameras(ctx, 37.7749, -122.4194, 50, nil)
//
// # Errors
//
// Calls without a key fail with ErrUnauthenticated before any request.
// DNS and connection failures wrap ErrUnreachable. Non-2xx replies return
// *HTTPError, service-reported failures *RPCError, and image fetches
// *DownloadError. Nothing is retried.
//
// # Concurrency
//
// A Client is meant to be driven by one caller at a time. Configuration
// changes made through SetAPIKey, SetAPIURL and RegisterAPIKey mutate the
// client's copy and are not synchronized.
package camera
