// Package docstring splits a handler's documentation block into a one-line
// summary, a description and an optional structured fragment.
//
// A block looks like:
//
//	Get an item.
//	Looks the item up by id.
//	---
//	responses:
//	  200:
//	    description: ok
//
// Everything from the "---" line onwards is parsed as YAML.
package docstring

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/routes2swagger/internal/spec"
)

// Separator introduces the structured fragment.
const Separator = "---"

// ProcessFunc sanitizes summary and description text.
type ProcessFunc func(string) string

// Sanitize replaces embedded line breaks with an inline <br/> marker.
func Sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", "<br/>")
}

// Block is a parsed documentation block. Fragment is nil when the block has
// no fragment.
type Block struct {
	Summary     string
	Description string
	Fragment    map[string]any
}

// Parser reads documentation blocks from handlers.
type Parser struct {
	source          Source
	process         ProcessFunc
	fromFileKeyword string
}

// NewParser returns a parser reading from source. A nil source means
// Default(); a nil process means Sanitize. When fromFileKeyword is set, a
// line "<keyword>: <path>" redirects the whole block to the file at path.
func NewParser(source Source, process ProcessFunc, fromFileKeyword string) *Parser {
	if source == nil {
		source = Default()
	}
	if process == nil {
		process = Sanitize
	}
	return &Parser{source: source, process: process, fromFileKeyword: fromFileKeyword}
}

// Parse reads and splits the documentation of handler. A handler without
// documentation yields an empty Block and no error.
func (p *Parser) Parse(handler any) (Block, error) {
	doc, err := p.source.Doc(handler)
	if err != nil {
		return Block{}, err
	}
	return p.ParseText(doc)
}

// ParseText splits a documentation block.
func (p *Parser) ParseText(doc string) (Block, error) {
	doc = clean(doc)
	if doc == "" {
		return Block{}, nil
	}

	if p.fromFileKeyword != "" {
		if path := findFromFile(doc, p.fromFileKeyword); path != "" {
			fromFile, err := spec.ReadDoc(path)
			if err != nil {
				return Block{}, err
			}
			if fromFile = clean(fromFile); fromFile != "" {
				doc = fromFile
			}
		}
	}

	lf := strings.IndexByte(doc, '\n')
	if lf == -1 {
		return Block{Summary: p.process(doc)}, nil
	}

	block := Block{Summary: p.process(doc[:lf])}
	rest := doc[lf+1:]
	sep := separatorIndex(rest)
	if sep == -1 {
		block.Description = p.process(rest)
		return block, nil
	}
	block.Description = p.process(rest[:sep])

	fragment, err := decodeFragment(rest[sep:])
	if err != nil {
		return Block{}, &spec.SpecError{
			Code:    spec.ParseError,
			Message: fmt.Sprintf("docstring: parse fragment: %v", err),
			Cause:   err,
		}
	}
	block.Fragment = spec.NormalizeMap(fragment)
	return block, nil
}

// decodeFragment reads exactly one YAML document. A second "---" inside the
// fragment starts another document, which is rejected rather than dropped.
func decodeFragment(text string) (map[string]any, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))
	var fragment map[string]any
	if err := dec.Decode(&fragment); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	var extra any
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return fragment, nil
	case err != nil:
		return nil, err
	default:
		return nil, errors.New("fragment holds more than one YAML document")
	}
}

// findFromFile returns path from a line "<keyword>: <path>".
func findFromFile(doc, keyword string) string {
	for _, line := range strings.Split(doc, "\n") {
		if !strings.Contains(line, keyword) {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), ":")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == keyword {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// separatorIndex returns the offset of the first line that is exactly the
// separator, or -1.
func separatorIndex(s string) int {
	offset := 0
	for _, line := range strings.SplitAfter(s, "\n") {
		if strings.TrimSpace(line) == Separator {
			return offset
		}
		offset += len(line)
	}
	return -1
}

// clean normalizes line endings, drops leading and trailing blank lines and
// removes the indentation shared by every line after the first, so blocks
// written as indented raw strings parse the same as doc comments.
func clean(doc string) string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		body := strings.TrimLeft(line, " ")
		if body == "" {
			continue
		}
		if indent := len(line) - len(body); margin == -1 || indent < margin {
			margin = indent
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// expandTabs replaces leading tabs with spaces, eight columns per tab stop.
func expandTabs(doc string) string {
	if !strings.Contains(doc, "\t") {
		return doc
	}
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		var b strings.Builder
		col := 0
		j := 0
		for ; j < len(line); j++ {
			switch line[j] {
			case '\t':
				n := 8 - col%8
				b.WriteString(strings.Repeat(" ", n))
				col += n
				continue
			case ' ':
				b.WriteByte(' ')
				col++
				continue
			}
			break
		}
		b.WriteString(line[j:])
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
