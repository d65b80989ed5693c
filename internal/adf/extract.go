package adf

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxDepth bounds traversal when no explicit limit is given.
const DefaultMaxDepth = 64

// ErrDepthExceeded is returned when a document nests deeper than the allowed depth.
var ErrDepthExceeded = errors.New("document exceeds maximum nesting depth")

// blockTypes end with a newline once their children have been written.
var blockTypes = map[string]bool{
	"paragraph": true,
	"heading":   true,
	"listItem":  true,
	"tableRow":  true,
	"tableCell": true,
}

// IsDocument reports whether v structurally resembles a rich document:
// an object with type "doc" and an array content.
func IsDocument(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if t, _ := obj["type"].(string); t != "doc" {
		return false
	}
	_, ok = obj["content"].([]any)
	return ok
}

// Extract flattens a document tree to plain text without normalizing whitespace.
// maxDepth <= 0 selects DefaultMaxDepth.
func Extract(node any, maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var b strings.Builder
	if err := collect(node, &b, 0, maxDepth); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ToText extracts and normalizes a document in one step.
func ToText(node any, maxDepth int) (string, error) {
	raw, err := Extract(node, maxDepth)
	if err != nil {
		return "", err
	}
	return Normalize(raw), nil
}

func collect(node any, b *strings.Builder, depth, maxDepth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w (%d)", ErrDepthExceeded, maxDepth)
	}

	obj, ok := node.(map[string]any)
	if !ok {
		return nil
	}
	nodeType, _ := obj["type"].(string)

	switch nodeType {
	case "text":
		if text, ok := obj["text"].(string); ok {
			b.WriteString(text)
		}
	case "hardBreak":
		b.WriteByte('\n')
	case "mention":
		attrs, _ := obj["attrs"].(map[string]any)
		if text, ok := attrs["text"].(string); ok {
			b.WriteString(text)
		} else if id, ok := attrs["id"].(string); ok {
			b.WriteByte('@')
			b.WriteString(id)
		}
	}

	children, ok := obj["content"].([]any)
	if !ok {
		return nil
	}

	if nodeType == "listItem" {
		b.WriteString("- ")
	}
	for _, child := range children {
		if err := collect(child, b, depth+1, maxDepth); err != nil {
			return err
		}
	}
	if blockTypes[nodeType] {
		b.WriteByte('\n')
	}
	return nil
}
