package crankfeed

// Upstream column names.
const (
	FieldTitle       = "Title"
	FieldName        = "Name"
	FieldDate        = "Date"
	FieldTime        = "Time"
	FieldStartTime   = "Start Time"
	FieldVenue       = "Venue"
	FieldCity        = "City"
	FieldTags        = "Tags"
	FieldStatus      = "Status"
	FieldSource      = "Source"
	FieldLeadScore   = "Lead Score"
	FieldSponsorLead = "Sponsor Lead"
	FieldEventLink   = "Event Link"
	FieldLink        = "Link"
	FieldArtistName  = "Artist / Band Name"
	FieldGenre       = "Genre"
	FieldCreatedAt   = "Created At"
)
