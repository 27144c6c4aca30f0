package main

import (
	"encoding/json"
	"io"

	"github.com/adlio/linkcache"
)

// alfredItem is one row of Alfred's Script Filter JSON format.
type alfredItem struct {
	UID      string `json:"uid,omitempty"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Arg      string `json:"arg"`
	Match    string `json:"match,omitempty"`
	Valid    bool   `json:"valid"`
}

type alfredOutput struct {
	Items []alfredItem `json:"items"`
}

// writeAlfred renders links as a Script Filter document. The match
// field carries both title and subtitle so Alfred's own filtering can
// hit folder names as well as titles.
func writeAlfred(w io.Writer, links []*linkcache.Link) error {
	out := alfredOutput{Items: make([]alfredItem, 0, len(links))}
	for _, link := range links {
		match := link.Title
		if link.Subtitle != "" {
			match = link.Subtitle + " / " + link.Title
		}
		out.Items = append(out.Items, alfredItem{
			UID:      link.ID,
			Title:    link.Title,
			Subtitle: link.Subtitle,
			Arg:      link.URL,
			Match:    match,
			Valid:    true,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
