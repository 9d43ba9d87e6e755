package journal

import (
	"encoding/json"
	"strings"
)

type contentKind int

const (
	contentNone contentKind = iota
	contentPlain
	contentRich
)

// Segment is one run of rich text: an insert plus optional formatting
// attributes. Non-string inserts (embeds) carry no countable text.
type Segment struct {
	Insert     string                 `json:"insert"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var aux struct {
		Insert     json.RawMessage        `json:"insert"`
		Attributes map[string]interface{} `json:"attributes"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Attributes = aux.Attributes
	// inserts may be embeds (objects); only string inserts carry text
	var ins string
	if err := json.Unmarshal(aux.Insert, &ins); err == nil {
		s.Insert = ins
	}
	return nil
}

// Content is an entry body: either a plain string (legacy form) or a
// sequence of rich-text segments. The shape is resolved once, when the
// content is decoded; anything unrecognized decodes to the empty content
// rather than an error.
type Content struct {
	kind  contentKind
	plain string
	rich  []Segment
}

func PlainContent(s string) Content {
	return Content{kind: contentPlain, plain: s}
}

func RichContent(segments ...Segment) Content {
	return Content{kind: contentRich, rich: segments}
}

func (c Content) IsZero() bool { return c.kind == contentNone }

// Plain returns the plain string form and whether the content is plain.
func (c Content) Plain() (string, bool) { return c.plain, c.kind == contentPlain }

// Segments returns the rich segments and whether the content is rich.
// Segment order is preserved from the decoded document.
func (c Content) Segments() ([]Segment, bool) { return c.rich, c.kind == contentRich }

func (c *Content) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*c = PlainContent(plain)
		return nil
	}

	var rich []Segment
	if err := json.Unmarshal(data, &rich); err == nil {
		*c = RichContent(rich...)
		return nil
	}

	// unrecognized shape (null, object, number...): empty content, never an error
	*c = Content{}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case contentPlain:
		return json.Marshal(c.plain)
	case contentRich:
		return json.Marshal(c.rich)
	}
	return []byte("null"), nil
}

// Words counts whitespace-delimited tokens in the content. Rich segments are
// joined with a single space, so adjacent segments never merge into one word.
// Deliberately not a linguistic word count.
func (c Content) Words() int {
	switch c.kind {
	case contentPlain:
		return len(strings.Fields(c.plain))
	case contentRich:
		parts := make([]string, 0, len(c.rich))
		for _, seg := range c.rich {
			parts = append(parts, strings.TrimSpace(seg.Insert))
		}
		return len(strings.Fields(strings.Join(parts, " ")))
	}
	return 0
}
