// Package parser validates and extracts httpc command lines.
//
// Three grammars are accepted, each of which must match the entire line:
//
//	httpc get [-v] [-h key:value]... URL
//	httpc post [-v] [-h key:value]... (-d 'inline-data' | -f file) URL
//	httpc help [get|post]
//
// A small lexer splits the line into words and single-quoted text; the
// parser then applies the rules for the selected command and produces a
// CommandLine.
package parser
