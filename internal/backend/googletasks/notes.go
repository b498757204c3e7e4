package googletasks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// trailerMarker separates the task body from the orange metadata in the
// notes field of a Google task.
const trailerMarker = "\n\n-- orange --\n"

const (
	idKey   = "orange-id: "
	tagsKey = "orange-tags: "
)

var errNoTrailer = errors.New("no orange trailer")

// encodeNotes appends the id and tags trailer to body.
func encodeNotes(id int64, body string, tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := sonic.ConfigStd.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString(trailerMarker)
	sb.WriteString(idKey)
	sb.WriteString(strconv.FormatInt(id, 10))
	sb.WriteString("\n")
	sb.WriteString(tagsKey)
	sb.Write(b)
	return sb.String(), nil
}

// decodeNotes splits notes written by encodeNotes. Malformed tags are read
// as none; a missing trailer or id returns errNoTrailer.
func decodeNotes(notes string) (id int64, body string, tags []string, err error) {
	idx := strings.LastIndex(notes, trailerMarker)
	if idx < 0 {
		return 0, "", nil, errNoTrailer
	}
	body = notes[:idx]

	found := false
	for _, line := range strings.Split(notes[idx+len(trailerMarker):], "\n") {
		switch {
		case strings.HasPrefix(line, idKey):
			n, perr := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, idKey)), 10, 64)
			if perr != nil {
				return 0, "", nil, fmt.Errorf("%w: bad id: %v", errNoTrailer, perr)
			}
			id, found = n, true
		case strings.HasPrefix(line, tagsKey):
			if jerr := sonic.ConfigStd.Unmarshal([]byte(strings.TrimPrefix(line, tagsKey)), &tags); jerr != nil {
				tags = nil
			}
		}
	}
	if !found {
		return 0, "", nil, errNoTrailer
	}
	return id, body, tags, nil
}
