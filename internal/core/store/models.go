package store

// ToRead flag values as the remote API encodes them.
const (
	ToReadYes = "yes"
	ToReadNo  = "no"
)

// Bookmark mirrors a single post as returned by the posts/all endpoint.
//
// The wire format has no id field; Description doubles as the identity key
// when reconciling after a mark-read batch. Duplicate descriptions therefore
// collide, locally and remotely alike.
type Bookmark struct {
	Href        string `json:"href"`
	Description string `json:"description"`
	ToRead      string `json:"toread"`
}

// Unread reports whether the bookmark is still on the to-read list.
func (b Bookmark) Unread() bool { return b.ToRead == ToReadYes }
