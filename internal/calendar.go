package internal

// FileSourceURL is the attribution URL recorded on events imported from
// local .ics files, which have no feed URL of their own.
const FileSourceURL = "https://events.from.ics.files.com"

// SourceSpec binds one event source to one destination calendar. Each
// spec is reconciled as a fully independent cycle.
type SourceSpec struct {
	// Source is a feed URL, or a local directory containing .ics files
	// when Files is set.
	Source string
	// Destination is the destination calendar id.
	Destination string
	// Platform names the destination provider, e.g. "google".
	Platform string
	// Files switches retrieval from network feed to local directory.
	Files bool
	// Prefix is prepended to every derived event id for this source.
	Prefix string
}

func (s SourceSpec) String() string {
	return s.Source + " -> " + s.Destination
}

// AttributionURL is the URL recorded in the source block of events the
// engine writes to the destination.
func (s SourceSpec) AttributionURL() string {
	if s.Files {
		return FileSourceURL
	}
	return s.Source
}
