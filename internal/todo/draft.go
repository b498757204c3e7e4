package todo

// Draft is the unvalidated staging form of a task while it is being typed.
// Any field may be empty.
type Draft struct {
	ID      int64
	Heading string
	Body    string
	Checked bool
	Tags    []string
}

// Clone returns a copy that shares no memory with d.
func (d Draft) Clone() Draft {
	d.Tags = cloneTags(d.Tags)
	return d
}
