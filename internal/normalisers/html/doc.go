// Package html extracts book text from HTML exports. Scripts, styles and
// navigation are dropped; block elements become paragraph breaks so the
// chunker can split on them.
package html
