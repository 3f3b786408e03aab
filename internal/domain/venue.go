package domain

type VenueType string

const (
	VenueArena   VenueType = "ARENA"
	VenueStadium VenueType = "STADIUM"
	VenueTheatre VenueType = "THEATRE"
	VenueClub    VenueType = "CLUB"
	VenueOutdoor VenueType = "OUTDOOR"
	VenueOther   VenueType = "OTHER"
)

type Venue struct {
	ID       string
	Name     string
	Location string
	Type     VenueType
}

// Layout is a named seat-map for a venue; events reference a layout and seats
// are generated from its section templates.
type Layout struct {
	ID       string
	VenueID  string
	Name     string
	ImageURL string
}

type SectionType string

const (
	SectionSeated SectionType = "SEATED"
	SectionGA     SectionType = "GA"
)

// SectionTemplate describes one section of a layout for seat generation.
// Seated sections produce rows × seatsPerRow seats; GA sections produce
// Capacity seats under a single "GA" row label. DisabledSeats holds
// "ROW-SEATNUM" keys to skip.
type SectionTemplate struct {
	ID            string
	LayoutID      string
	SectionName   string
	SectionType   SectionType
	Rows          []string
	SeatsPerRow   int
	Capacity      int
	DisabledSeats map[string]struct{}
}

// SeatDisabled reports whether the "ROW-SEATNUM" key is excluded.
func (s *SectionTemplate) SeatDisabled(key string) bool {
	_, ok := s.DisabledSeats[key]
	return ok
}
