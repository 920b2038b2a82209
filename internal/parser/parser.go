package parser

import (
	"bytes"
	"os"
)

type Document struct {
	Sections   *Sections
	Entities   Table
	SourceFile string
}

var bom = []byte("\ufeff")

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := Parse(data)
	doc.SourceFile = path
	return doc, nil
}

// Parse scans content and compiles its declarations. Malformed content is not
// an error; unusable pieces are dropped or left as text.
func Parse(content []byte) *Document {
	content = bytes.TrimPrefix(content, bom)
	sections := Scan(string(content))
	return &Document{
		Sections: sections,
		Entities: Compile(sections.Names, sections.Blocks),
	}
}
