package domain

// AdminUsername is the Telegram username that always has full access
const AdminUsername = "firekidffx"

// Bootstrap credential seeded into a freshly created config document
const (
	BootstrapUsername = "firekidffx"
	BootstrapPassword = "ahmed@ibmk"
)

// Identity is the caller of a command as reported by Telegram
type Identity struct {
	UserID   int64
	Username string
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle         UserState = "idle"
	StateNeedUsername UserState = "need_username"
	StateNeedPassword UserState = "need_password"
	StateNewUserName  UserState = "new_user_name"
	StateNewUserPass  UserState = "new_user_pass"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State    UserState
	Username string // candidate username captured by the first step of a flow
}

// Active reports whether a flow is waiting for the user's next message
func (s *StateData) Active() bool {
	return s != nil && s.State != "" && s.State != StateIdle
}
