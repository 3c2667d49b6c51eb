// Package wizard implements the interactive menu of tr064-debug.
//
// A Navigator is a small state machine. Every call to Step shows one screen
// through a prompt.Prompter, performs at most one device or store operation
// and moves to the next state:
//
//	MAIN ──► DEVICE_SELECT ──► SERVICE_SELECT ──► ACTION_SELECT ──► ARGUMENT_ENTRY / INVOKING
//	  │            ▲                  │   ▲              │                    │
//	  │            └──── Back ────────┘   └──── Back ────┘◄───────────────────┘
//	  ├──► ADD_DEVICE ──► (connect) ──► SERVICE_SELECT
//	  ├──► DISCOVER ──► ADD_DEVICE (host pre-filled)
//	  ├──► SHOW_CREDENTIALS / REMOVE_CREDENTIALS
//	  └──► EXIT
//
// Sub-screens get a "Back" entry appended when they are shown. Connection
// failures return to MAIN; invocations, failed or not, return to
// ACTION_SELECT for the same service. Run loops Step until Exit, the end
// of input or cancellation of the context.
//
// The connected device is held by the Navigator itself and replaced on
// every device selection. Output goes through a Renderer; TerminalRenderer
// draws it with the ui package.
package wizard
