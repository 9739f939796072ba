package assets

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed content
var contentFS embed.FS

// Content is the embedded global content, rooted so that keys look like
// "Maps/Town".
var Content fs.FS

func init() {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		log.Fatalf("embed: content: %v", err)
	}
	Content = sub
}
