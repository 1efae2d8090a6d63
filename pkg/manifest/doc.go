// Package manifest reads and rewrites package.json documents.
//
// Documents are handled as raw JSON so that every field the tool does not
// own passes through untouched and in its original order. Only the
// dependencies member is ever rewritten.
package manifest
