package request

// CreateGuestRequest is the body of POST /players/guest
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the body of POST /players/register
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the body of POST /players/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomRequest is the body of POST /rooms. The name is optional.
type CreateRoomRequest struct {
	Name string `json:"name,omitempty"`
}
