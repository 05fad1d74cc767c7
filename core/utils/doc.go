// Package utils provides common utility functions for procdiff.
// It includes helpers for converting loosely typed source values into the plain
// strings the comparison engine works with.
package utils
