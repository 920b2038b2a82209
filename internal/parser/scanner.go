package parser

import "strings"

const (
	blockStart = '{'
	blockEnd   = '}'
)

var keyword = [...]byte{'d', 'e', 'f', ' '}

type scanState int

const (
	scanText scanState = iota
	scanKeyword
	scanName
	scanAwaitBlock
	scanBlock
)

// Sections is the first-pass split of a document. Segments and Blocks are
// interleaved in the source but kept apart; Names pair with Blocks by position.
type Sections struct {
	Segments     []string
	Names        []string
	Blocks       []string
	Unterminated bool
}

type scanner struct {
	state    scanState
	progress int
	depth    int

	text  strings.Builder
	held  strings.Builder
	name  strings.Builder
	block strings.Builder

	out Sections
}

// Scan splits document into text segments, declaration names and raw data
// blocks in a single forward pass. It never fails: malformed input degrades to
// best-effort segmentation.
func Scan(document string) *Sections {
	s := &scanner{}
	for i := 0; i < len(document); i++ {
		s.step(document[i])
	}
	s.finish()
	return &s.out
}

func (s *scanner) step(c byte) {
	switch s.state {
	case scanText:
		switch c {
		case blockStart:
			s.openBlock(c)
		case keyword[0]:
			s.held.WriteByte(c)
			s.progress = 1
			s.state = scanKeyword
		default:
			s.text.WriteByte(c)
		}
	case scanKeyword:
		if c != keyword[s.progress] {
			s.rollback()
			s.step(c)
			return
		}
		s.held.WriteByte(c)
		s.progress++
		if s.progress == len(keyword) {
			s.name.Reset()
			s.state = scanName
		}
	case scanName:
		s.held.WriteByte(c)
		if isSpace(c) {
			s.out.Names = append(s.out.Names, s.name.String())
			s.name.Reset()
			s.state = scanAwaitBlock
			return
		}
		s.name.WriteByte(c)
	case scanAwaitBlock:
		if c == blockStart {
			s.held.Reset()
			s.progress = 0
			s.openBlock(c)
			return
		}
		s.rollback()
		s.step(c)
	case scanBlock:
		s.block.WriteByte(c)
		switch c {
		case blockStart:
			s.depth++
		case blockEnd:
			s.depth--
			if s.depth == 0 {
				s.out.Blocks = append(s.out.Blocks, s.block.String())
				s.block.Reset()
				s.state = scanText
			}
		}
	}
}

// rollback returns speculatively held characters to the current text segment.
func (s *scanner) rollback() {
	s.text.WriteString(s.held.String())
	s.held.Reset()
	s.name.Reset()
	s.progress = 0
	s.state = scanText
}

func (s *scanner) openBlock(c byte) {
	if segment := strings.TrimSpace(s.text.String()); segment != "" {
		s.out.Segments = append(s.out.Segments, segment)
	}
	s.text.Reset()
	s.block.Reset()
	s.block.WriteByte(c)
	s.depth = 1
	s.state = scanBlock
}

func (s *scanner) finish() {
	if s.state == scanBlock {
		s.out.Blocks = append(s.out.Blocks, s.block.String())
		s.out.Unterminated = true
		return
	}
	s.rollback()
	s.out.Segments = append(s.out.Segments, strings.TrimSpace(s.text.String())+"\n")
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
