// Package listing renders decoded class files as javap-style text.
//
// Every section function returns a string so the same output can be printed
// by the command line tool or placed in a scrolling view. Styles decides how
// tokens are coloured; PlainStyles produces uncoloured text suitable for
// pipes and golden comparisons.
package listing
