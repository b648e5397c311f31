package domain

import (
	"regexp"
)

// LinkKind is the kind of object a share link points to
type LinkKind string

const (
	LinkFile   LinkKind = "file"
	LinkFolder LinkKind = "folder"
)

// ShareLink is a parsed MediaFire share URL
type ShareLink struct {
	Kind LinkKind
	Key  string
}

var (
	shareLinkPattern  = regexp.MustCompile(`mediafire\.com/(file|file_premium|folder)/([A-Za-z0-9]+)`)
	legacyLinkPattern = regexp.MustCompile(`mediafire\.com/\?([A-Za-z0-9]+)`)
)

// ParseShareURL extracts the link kind and share key from a MediaFire URL.
// It returns false when the input is not a recognised MediaFire link.
func ParseShareURL(raw string) (ShareLink, bool) {
	if m := shareLinkPattern.FindStringSubmatch(raw); m != nil {
		kind := LinkFile
		if m[1] == "folder" {
			kind = LinkFolder
		}
		return ShareLink{Kind: kind, Key: m[2]}, true
	}
	if m := legacyLinkPattern.FindStringSubmatch(raw); m != nil {
		return ShareLink{Kind: LinkFile, Key: m[1]}, true
	}
	return ShareLink{}, false
}
