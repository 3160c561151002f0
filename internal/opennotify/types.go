package opennotify

// Person is one entry of the astros.json crew list.
type Person struct {
	Name  string `json:"name"`
	Craft string `json:"craft"`
}

// Astronauts is the decoded astros.json response.
type Astronauts struct {
	Number int
	People []Person
}

// RawPosition is the ISS position exactly as the API reports it. The fields
// are left as strings; numeric conversion happens at the point of use.
type RawPosition struct {
	Longitude string
	Latitude  string
	Timestamp int64
}

// Pass is one predicted visible passover.
type Pass struct {
	RiseTime int64 `json:"risetime"` // unix seconds
	Duration int   `json:"duration"` // seconds
}

// Wire formats. Pointer fields let decode tell "missing" from "zero".

type astrosResponse struct {
	Message string    `json:"message"`
	Number  *int      `json:"number"`
	People  *[]Person `json:"people"`
}

type issNowResponse struct {
	Message     string `json:"message"`
	Timestamp   int64  `json:"timestamp"`
	ISSPosition *struct {
		Longitude *string `json:"longitude"`
		Latitude  *string `json:"latitude"`
	} `json:"iss_position"`
}

type issPassResponse struct {
	Message  string  `json:"message"`
	Reason   string  `json:"reason"`
	Response *[]Pass `json:"response"`
}
