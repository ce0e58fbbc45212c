package node

type Flags uint8

const (
	ExpandedByDefault Flags = 1 << iota //initial expansion state given to new occurrences
)

const (
	RootKey     = "hidden-root-vnode-gnx"
	RootHeading = "<hidden root vnode>"
)

// Record is the content shared by every occurrence of one node.
type Record struct {
	Key     string //globally unique, never reused
	Heading string
	Body    string
	Flags   Flags
}

func NewRecord(key string, heading string) Record {
	return Record{Key: key, Heading: heading, Flags: ExpandedByDefault}
}

func (r Record) ExpandedByDefault() bool {
	return r.Flags&ExpandedByDefault != 0
}
