package pages

import (
	"fmt"
	"math/rand"
)

var usStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut",
	"Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
	"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan",
	"Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire",
	"New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota", "Ohio",
	"Oklahoma", "Oregon", "Pennsylvania", "Rhode Island", "South Carolina", "South Dakota",
	"Tennessee", "Texas", "Utah", "Vermont", "Virginia", "Washington", "West Virginia",
	"Wisconsin", "Wyoming",
}

// Location is test input for the forecast widget.
type Location struct {
	State   string
	ZipCode string
}

// RandomLocation returns a US state name and a five digit zip code.
func RandomLocation() Location {
	return Location{
		State:   usStates[rand.Intn(len(usStates))],
		ZipCode: fmt.Sprintf("%05d", rand.Intn(100000)),
	}
}
