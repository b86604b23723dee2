package request

// CreateRoomRequest is the body for POST /rooms
type CreateRoomRequest struct {
	HostName   string   `json:"host_name"`
	Language   string   `json:"language"`
	Categories []string `json:"categories"`
	PuzzleID   int      `json:"puzzle_id,omitempty"`
}

// JoinRoomRequest is the body for POST /rooms/{code}/join
type JoinRoomRequest struct {
	GuestName string `json:"guest_name"`
}

// LeaveRoomRequest is the body for POST /rooms/{code}/leave
type LeaveRoomRequest struct {
	Role string `json:"role"`
}
