// Package browser wraps the two Chrome automation libraries behind one
// Driver interface.
//
//	┌──────────────┐        ┌──────────────┐
//	│ editor       │───────▶│ Driver       │
//	│ Gateway      │        └──────┬───────┘
//	└──────────────┘               │
//	               ┌───────────────┴───────────────┐
//	               ▼                               ▼
//	        ┌─────────────┐                 ┌─────────────┐
//	        │ RodDriver   │                 │ ChromeDP    │
//	        │ (go-rod)    │                 │ Driver      │
//	        └─────────────┘                 └─────────────┘
//
// Both implementations either launch a local Chrome or attach to a running
// one through its DevTools websocket (Options.RemoteURL). Every element
// method addresses elements by XPath and waits up to Options.Timeout for
// them. The caller's context cancels a pending wait.
//
// One Driver is one browser session. Sessions are not shared between test
// groups.
package browser
