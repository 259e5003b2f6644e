package normalize

import (
	"github.com/buzzcrank/crankfeed"
)

// NowPlaying digs the current track out of a stream-metadata payload. It
// accepts a top-level array (first element), a now_playing or nowPlaying
// wrapper, and a song or current_song object, falling back to the enclosing
// object at each level. Missing values take the station defaults.
func NowPlaying(payload any) crankfeed.NowPlaying {
	if list, ok := payload.([]any); ok {
		if len(list) == 0 {
			return crankfeed.NowPlaying{}.WithDefaults()
		}
		payload = list[0]
	}

	root, _ := payload.(map[string]any)
	np := crankfeed.LookupObject(root, "now_playing", "nowPlaying")
	if np == nil {
		np = root
	}
	song := crankfeed.LookupObject(np, "song", "current_song")
	if song == nil {
		song = np
	}

	return crankfeed.NowPlaying{
		Title:  crankfeed.LookupString(song, "title", "name", "text"),
		Artist: crankfeed.LookupString(song, "artist", "artist_name", "artistText"),
		Art:    crankfeed.LookupString(song, "art", "cover", "album_art"),
	}.WithDefaults()
}
