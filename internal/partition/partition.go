package partition

import "strings"

// Block is a heading line followed by the lines that belong to it. Blocks are
// never split across panels.
type Block []string

// Panel is the ordered text drawn on one rendered image.
type Panel []string

// Classifier decides which lines open a new block.
type Classifier struct {
	keywords []string
}

// NewClassifier returns a classifier that treats any line containing one of
// keywords as a heading. Blank keywords are ignored.
func NewClassifier(keywords []string) Classifier {
	kept := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword != "" {
			kept = append(kept, keyword)
		}
	}
	return Classifier{keywords: kept}
}

// IsHeading reports whether line opens a block: it contains a configured
// keyword, or it ends with ':' once surrounding whitespace is removed.
func (c Classifier) IsHeading(line string) bool {
	for _, keyword := range c.keywords {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return strings.HasSuffix(strings.TrimSpace(line), ":")
}

// Blocks groups lines into heading-led blocks. The first line always opens
// the first block whether or not it is a heading.
func (c Classifier) Blocks(lines []string) []Block {
	var blocks []Block
	var current Block
	for _, line := range lines {
		if c.IsHeading(line) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// Partition splits lines into two panels of roughly equal line count. Whole
// blocks are added to the first panel while it holds fewer than half of all
// lines; every remaining block goes to the second panel. A single large block
// may push the first panel past the midpoint.
func (c Classifier) Partition(lines []string) (Panel, Panel) {
	blocks := c.Blocks(lines)
	half := len(lines) / 2

	first := Panel{}
	second := Panel{}
	i := 0
	for ; i < len(blocks) && len(first) < half; i++ {
		first = append(first, blocks[i]...)
	}
	for ; i < len(blocks); i++ {
		second = append(second, blocks[i]...)
	}
	return first, second
}
