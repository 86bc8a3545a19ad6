package model

import "fmt"

// StayType classifies a reservation by how long the guest occupies the
// room.  The set is fixed: the three values below are bootstrapped once
// and afterwards only reconfigured, never created or deleted.
type StayType string

const (
	StayHourly   StayType = "hourly"
	StayNightly  StayType = "nightly"
	StayLongTerm StayType = "long_term"
)

// AllStayTypes lists every stay type in display order.
var AllStayTypes = []StayType{StayHourly, StayNightly, StayLongTerm}

// Valid reports whether s is one of the three known stay types.
func (s StayType) Valid() bool {
	switch s {
	case StayHourly, StayNightly, StayLongTerm:
		return true
	}
	return false
}

// ParseStayType converts the wire form into a StayType.
func ParseStayType(s string) (StayType, error) {
	st := StayType(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown stay type %q", s)
	}
	return st, nil
}

// BookingSource is the external channel a reservation arrived through.
type BookingSource string

const (
	SourceWalkIn  BookingSource = "walk_in"
	SourcePhone   BookingSource = "phone"
	SourceWebsite BookingSource = "website"
	SourceOTA     BookingSource = "ota"
	SourceAgency  BookingSource = "agency"
	SourceOther   BookingSource = "other"
)

// Valid reports whether b is a known booking channel.
func (b BookingSource) Valid() bool {
	switch b {
	case SourceWalkIn, SourcePhone, SourceWebsite, SourceOTA, SourceAgency, SourceOther:
		return true
	}
	return false
}
