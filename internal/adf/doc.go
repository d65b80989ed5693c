// Package adf converts between the Atlassian Document Format (the rich-text
// tree Jira uses for descriptions and comments) and plain text.
//
// Extraction is a depth-first walk that appends to a single buffer. Unknown
// node types without children contribute nothing, so documents using newer
// block types still flatten cleanly. The walk is bounded by a maximum depth;
// deeper trees fail with ErrDepthExceeded instead of exhausting the stack.
package adf
