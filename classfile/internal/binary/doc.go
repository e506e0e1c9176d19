// Package binary implements the byte cursor used by the class file decoder:
// big-endian fixed-width reads, modified UTF-8, padding alignment and
// length-bounded sub-readers that keep absolute buffer offsets.
package binary
