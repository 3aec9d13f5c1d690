package request

// RandomFleetRequest is the request body for POST /api/v1/fleets/random
type RandomFleetRequest struct {
	Name string `json:"name"`
}

// MaxNameLength bounds player display names
const MaxNameLength = 32

// AddBotRequest is the request body for POST /api/v1/rooms/{roomId}/bots
type AddBotRequest struct {
	Strategy string `json:"strategy"`
	Passcode string `json:"passcode"`
}
