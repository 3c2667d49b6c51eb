package wizard

import "fmt"

// State is the screen the navigator shows next
type State int

const (
	StateMain State = iota
	StateDeviceSelect
	StateAddDevice
	StateDiscover
	StateShowCredentials
	StateRemoveCredentials
	StateServiceSelect
	StateActionSelect
	StateArgumentEntry
	StateInvoking
	StateExit
)

// String returns the screen name used in logs
func (s State) String() string {
	switch s {
	case StateMain:
		return "MAIN"
	case StateDeviceSelect:
		return "DEVICE_SELECT"
	case StateAddDevice:
		return "ADD_DEVICE"
	case StateDiscover:
		return "DISCOVER"
	case StateShowCredentials:
		return "SHOW_CREDENTIALS"
	case StateRemoveCredentials:
		return "REMOVE_CREDENTIALS"
	case StateServiceSelect:
		return "SERVICE_SELECT"
	case StateActionSelect:
		return "ACTION_SELECT"
	case StateArgumentEntry:
		return "ARGUMENT_ENTRY"
	case StateInvoking:
		return "INVOKING"
	case StateExit:
		return "EXIT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Main menu entries
const (
	ChoiceSelectDevice      = "Select device"
	ChoiceAddDevice         = "Add device"
	ChoiceDiscover          = "Discover devices"
	ChoiceShowCredentials   = "Show credentials"
	ChoiceRemoveCredentials = "Remove credentials"
	ChoiceExit              = "Exit"

	// ChoiceBack is appended to every sub-screen list
	ChoiceBack = "Back"
)

var mainChoices = []string{
	ChoiceSelectDevice,
	ChoiceAddDevice,
	ChoiceDiscover,
	ChoiceShowCredentials,
	ChoiceRemoveCredentials,
	ChoiceExit,
}

// MainChoices returns the main menu entries
func MainChoices() []string {
	return append([]string(nil), mainChoices...)
}

// withBack returns a copy of choices with the Back entry appended
func withBack(choices []string) []string {
	out := make([]string, 0, len(choices)+1)
	out = append(out, choices...)
	return append(out, ChoiceBack)
}

// parent is the screen Back leads to
func parent(s State) State {
	switch s {
	case StateServiceSelect:
		return StateDeviceSelect
	case StateActionSelect:
		return StateServiceSelect
	default:
		return StateMain
	}
}
