package models

// Passenger is bound to exactly one seat by array position in a booking
// request. After a successful booking it is kept in history for autocomplete.
type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}
