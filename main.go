// ytmeta fetches the title, description, and transcript of YouTube videos
// and playlists and writes one JSON or text file per video.
package main

import (
	"os"

	"ytmeta/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
