// Package arc reads the Arc browser's StorableSidebar.json snapshot,
// reconstructs the typed sidebar hierarchy from its untyped item array,
// and exposes pinned bookmarks as links with folder-path breadcrumbs.
package arc

import (
	"bytes"
	"encoding/json"
	"strings"
)

// pathSeparator joins ancestor titles into a breadcrumb.
const pathSeparator = " / "

// State is a parsed sidebar document.
type State struct {
	Version int64   `json:"version"`
	Sidebar Sidebar `json:"sidebar"`
}

// Sidebar holds the sidebar panes.
type Sidebar struct {
	Containers []Container `json:"containers"`
}

// Container is one sidebar pane holding spaces and items. Arc mixes
// typed containers with bare values in the containers array; a value
// container simply decodes with no spaces and no items.
type Container struct {
	Spaces []SpaceEntry `json:"spaces"`
	Items  []Item       `json:"items"`
}

// Space is a root container in the sidebar. Spaces carry a title and
// have no parent; every breadcrumb terminates at one.
type Space struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SpaceEntry is one element of a container's spaces array, which mixes
// space objects with bare identifier strings. Non-object entries keep
// Space nil and survive re-serialization through Raw.
type SpaceEntry struct {
	Space *Space
	Raw   json.RawMessage
}

// UnmarshalJSON keeps the raw bytes and decodes a Space when the entry
// is an object with an identifier.
func (e *SpaceEntry) UnmarshalJSON(data []byte) error {
	e.Raw = append(e.Raw[:0], data...)
	e.Space = nil

	if !looksLikeObject(data) {
		return nil
	}
	var space Space
	if err := json.Unmarshal(data, &space); err != nil || space.ID == "" {
		return nil
	}
	e.Space = &space
	return nil
}

// MarshalJSON round-trips the original bytes losslessly.
func (e SpaceEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return []byte("null"), nil
	}
	return e.Raw, nil
}

// Item is one entry of a container's items array. Arc's format carries
// no type tag, so each item is classified structurally on decode:
// a payload with a "list" or "itemContainer" shape is a Folder, a
// payload with a "tab" shape is a Bookmark, and anything else is an
// opaque value the resolver ignores for traversal. A folder-shaped
// payload is always tried before a bookmark-shaped one, and a typed
// decode failure falls closed into the opaque form, so one malformed
// item never aborts the document.
type Item struct {
	Folder   *Folder
	Bookmark *Bookmark
	Raw      json.RawMessage
}

// UnmarshalJSON classifies the item once; use sites switch on the
// populated variant and never re-inspect the payload shape.
func (it *Item) UnmarshalJSON(data []byte) error {
	it.Raw = append(it.Raw[:0], data...)
	it.Folder = nil
	it.Bookmark = nil

	var probe struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil
	}

	_, hasList := probe.Data["list"]
	_, hasItemContainer := probe.Data["itemContainer"]
	if hasList || hasItemContainer {
		var folder Folder
		if err := json.Unmarshal(data, &folder); err == nil && folder.ID != "" {
			it.Folder = &folder
		}
		return nil
	}

	if _, hasTab := probe.Data["tab"]; hasTab {
		var bookmark Bookmark
		if err := json.Unmarshal(data, &bookmark); err == nil && bookmark.ID != "" {
			it.Bookmark = &bookmark
		}
		return nil
	}

	return nil
}

// MarshalJSON round-trips the original bytes losslessly.
func (it Item) MarshalJSON() ([]byte, error) {
	if len(it.Raw) == 0 {
		return []byte("null"), nil
	}
	return it.Raw, nil
}

// Folder is a sidebar folder which may contain other folders or
// bookmarks.
type Folder struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	ParentID    string          `json:"parentID"`
	ChildrenIDs []string        `json:"childrenIds"`
	Data        json.RawMessage `json:"data"`
}

// ParentRef returns the folder's parent identifier. Arc records it in
// two incompatible forms: an explicit parentID field, or a space
// pointer buried in the item container payload. The explicit field
// wins when both are present.
func (f *Folder) ParentRef() string {
	if f.ParentID != "" {
		return f.ParentID
	}
	return f.spacePointer()
}

// parentConflict reports whether the two parent conventions coexist
// and disagree for this folder.
func (f *Folder) parentConflict() bool {
	buried := f.spacePointer()
	return f.ParentID != "" && buried != "" && buried != f.ParentID
}

// spacePointer extracts the space identifier buried at
// itemContainer.containerType.spaceItems inside the folder payload.
// The value appears both as a keyed object {"_0": id} and as a plain
// array [id, ...].
func (f *Folder) spacePointer() string {
	var data struct {
		ItemContainer struct {
			ContainerType struct {
				SpaceItems json.RawMessage `json:"spaceItems"`
			} `json:"containerType"`
		} `json:"itemContainer"`
	}
	if err := json.Unmarshal(f.Data, &data); err != nil {
		return ""
	}

	raw := data.ItemContainer.ContainerType.SpaceItems
	if len(raw) == 0 {
		return ""
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err == nil {
		var id string
		if err := json.Unmarshal(keyed["_0"], &id); err == nil {
			return id
		}
		return ""
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		var id string
		if err := json.Unmarshal(list[0], &id); err == nil {
			return id
		}
	}
	return ""
}

// Bookmark is an individual pinned link in the sidebar.
type Bookmark struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ParentID string  `json:"parentID"`
	Data     TabData `json:"data"`
}

// TabData wraps the saved tab recorded on a bookmark.
type TabData struct {
	Tab Tab `json:"tab"`
}

// Tab is the page snapshot Arc keeps for a pinned site.
type Tab struct {
	SavedTitle string `json:"savedTitle"`
	SavedURL   string `json:"savedURL"`
}

// EffectiveTitle returns the human-assigned title when present and
// non-empty, falling back to the title saved from the page. Both may
// be absent, in which case the title is empty.
func (b *Bookmark) EffectiveTitle() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Data.Tab.SavedTitle
}

// Bookmarks returns every bookmark in the document in encounter order.
func (s *State) Bookmarks() []*Bookmark {
	var bookmarks []*Bookmark
	for _, c := range s.Sidebar.Containers {
		for i := range c.Items {
			if bm := c.Items[i].Bookmark; bm != nil {
				bookmarks = append(bookmarks, bm)
			}
		}
	}
	return bookmarks
}

// node is one classified entry in the identifier-to-node map. Exactly
// one field is set.
type node struct {
	space    *Space
	folder   *Folder
	bookmark *Bookmark
}

// Tree is an immutable identifier-to-node map over a parsed document.
// Build it once with State.Tree and share it across ancestor queries;
// it never mutates the underlying State.
type Tree struct {
	nodes map[string]node

	// folder ids where the explicit parent field and the buried space
	// pointer disagree; the explicit field was used.
	conflicts []string
}

// Tree classifies every space, folder and bookmark in the document
// into a lookup map keyed by identifier.
func (s *State) Tree() *Tree {
	t := &Tree{nodes: make(map[string]node)}
	for _, c := range s.Sidebar.Containers {
		for _, e := range c.Spaces {
			if e.Space != nil {
				t.nodes[e.Space.ID] = node{space: e.Space}
			}
		}
		for i := range c.Items {
			switch {
			case c.Items[i].Folder != nil:
				folder := c.Items[i].Folder
				t.nodes[folder.ID] = node{folder: folder}
				if folder.parentConflict() {
					t.conflicts = append(t.conflicts, folder.ID)
				}
			case c.Items[i].Bookmark != nil:
				bookmark := c.Items[i].Bookmark
				t.nodes[bookmark.ID] = node{bookmark: bookmark}
			}
		}
	}
	return t
}

// ParentConflicts returns the folder identifiers whose two parent
// conventions disagreed during classification.
func (t *Tree) ParentConflicts() []string {
	return t.conflicts
}

// AncestorPath returns the breadcrumb for the chain starting at the
// given identifier: ancestor titles in root-to-leaf order joined by
// " / ". Folders contribute their title and advance to their parent; a
// space contributes its title and terminates the walk; a bookmark
// appearing as a parent advances without a segment; an unknown
// identifier stops. The walk tracks visited identifiers so cyclic or
// dangling parent references terminate rather than loop.
func (t *Tree) AncestorPath(id string) string {
	var titles []string
	visited := make(map[string]bool)

	current := id
	for current != "" && !visited[current] {
		visited[current] = true

		n, ok := t.nodes[current]
		if !ok {
			break
		}

		switch {
		case n.folder != nil:
			if n.folder.Title != "" {
				titles = append([]string{n.folder.Title}, titles...)
			}
			current = n.folder.ParentRef()
		case n.space != nil:
			if n.space.Title != "" {
				titles = append([]string{n.space.Title}, titles...)
			}
			current = ""
		case n.bookmark != nil:
			current = n.bookmark.ParentID
		default:
			current = ""
		}
	}

	return strings.Join(titles, pathSeparator)
}

// looksLikeObject reports whether the JSON value starts with '{'.
func looksLikeObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
