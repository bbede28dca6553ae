// Package keyvalue parses hub reply lines.
//
// A reply line is a fixed header followed by a body of keywords:
//
//	cmdr cmdID actor type keyword1=value1,value2; keyword2; keyword3="a string"
//
// Parse decodes the body into an ordered list of keywords, each with zero or
// more string values. Hard syntax errors are returned as *SyntaxError; lenient
// recoveries (an unterminated string, a trailing comma, ...) are collected as
// Diagnostics on the Result and never abort the parse.
//
// Everything here is a pure function of its input and safe for concurrent use.
package keyvalue
