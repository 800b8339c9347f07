// Package state manages the local guidex state file.
//
// The state file (~/.local/state/guidex/state.json) is a small durable
// key-value map holding device-local state: the focus session and the
// signed-in account. All writes are serialized through file locking so
// several gx processes can share it.
package state

// State represents the persisted state file.
type State struct {
	Values map[string]string `json:"values"`
}

const (
	// KeyOwner holds the signed-in owner ID.
	KeyOwner = "account_owner"
	// KeyEmail holds the signed-in owner's email.
	KeyEmail = "account_email"
)
