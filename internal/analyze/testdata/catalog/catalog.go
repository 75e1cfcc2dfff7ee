package catalog

// Track is a recording on a playlist.
//
//jsonmap:alias Song
type Track struct {
	Title string `json:"title"`
	// Length in seconds, or "mm:ss".
	//jsonmap:type int|string
	Length any `json:"length"`
	Featuring []any `json:"featuring"` //jsonmap:type Artist[]|null
	Rating    any   //jsonmap:type int|null
	Notes     string `json:"-"`
}

type (
	// Artist performs tracks.
	//jsonmap:alias Performer
	Artist struct {
		Name string `json:"name"`
	}

	// Playlist is implemented by track collections.
	Playlist interface {
		Tracks() []Track
	}
)
