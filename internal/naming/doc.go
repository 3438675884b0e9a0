// Package naming provides the case conversion used by the code generator.
//
// Input names are split into words at separators (underscore, hyphen, dot,
// slash, whitespace), at lower-to-upper transitions and at the end of an
// upper-case run ("HTTPServer" -> "HTTP", "Server"). The words are then
// re-joined in the requested style.
package naming
