// Package ui provides the Bubble Tea terminal interface for camview.
//
// # Screens
//
//   - Setup: shown when no API key is stored; register with an email or
//     paste an existing key
//   - Menu: the numbered main menu (search, details, image URL, download,
//     popular locations, server info, settings, activity log)
//   - Form: one to three text inputs feeding a service operation
//   - Result: scrollable response text
//   - Locations: built-in places filtered by category; enter pre-fills the
//     search form
//   - Settings: masked key, endpoint, and actions to replace either
//   - Activity: the tail of the zerolog activity file via logtail
//
// # Requests
//
// Every remote call runs as a tea.Cmd against service.Service. While one
// is in flight the model is busy: a spinner shows in the header and only
// ctrl+c is accepted. Results arrive as resultMsg and decide the next
// screen. A stored key is validated once at startup; an invalid key stays
// in place until the user replaces it.
//
// # Themes
//
// Nightfox, Kanagawa and Slate are cycled with T. The choice is written
// back to the preferences file together with the other preference values.
package ui
