// Package tokens maps bracketed template keys such as [year] or [filename]
// to resolvers that derive path fragments from a file's capture metadata.
//
// A Registry is constructed explicitly at startup and treated as read-only
// afterwards. Templates are substituted in a single left-to-right pass with
// longest-key matching, so text produced by one resolver is never itself
// treated as a token. Unknown bracket sequences are copied through verbatim.
package tokens
