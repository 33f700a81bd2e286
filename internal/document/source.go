package document

import (
	"bytes"
	"io"
	"strings"
)

// Kind tags the shape a Source was created from
type Kind int

const (
	KindText Kind = iota
	KindBytes
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Source is a document in one of the accepted input shapes
type Source struct {
	kind Kind
	text string
	data []byte
	r    io.Reader
}

// FromText wraps in-memory markup
func FromText(text string) Source {
	return Source{kind: KindText, text: text}
}

// FromBytes wraps an in-memory byte slice
func FromBytes(data []byte) Source {
	return Source{kind: KindBytes, data: data}
}

// FromReader wraps an open stream. The caller keeps ownership and closes it.
func FromReader(r io.Reader) Source {
	return Source{kind: KindStream, r: r}
}

// Kind reports which constructor built the source
func (s Source) Kind() Kind {
	return s.kind
}

// Reader returns the source as a stream
func (s Source) Reader() io.Reader {
	switch s.kind {
	case KindText:
		return strings.NewReader(s.text)
	case KindBytes:
		return bytes.NewReader(s.data)
	default:
		if s.r == nil {
			return strings.NewReader("")
		}
		return s.r
	}
}
