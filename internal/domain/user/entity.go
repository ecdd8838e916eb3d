package user

// User represents a user record as exposed by the remote users backend.
type User struct {
	ID    int64  `json:"id"`    // ID is assigned by the backend on create
	Name  string `json:"name"`  // Name is the display name of the user
	Email string `json:"email"` // Email is the contact address of the user
}

// Payload is the request body sent to the backend on create and update.
type Payload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
