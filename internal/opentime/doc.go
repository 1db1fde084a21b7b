// Package opentime provides exact rational time points and half-open time
// ranges.
//
// A RationalTime is Value/Rate seconds. Rates are integer tick bases, so
// fractional frame rates are written with a tick base and a frame step
// (23.976 fps frames are multiples of 1001 at rate 24000, the FCPXML
// "1001/24000s" convention). Arithmetic and comparison rescale both operands
// to the least common multiple of their rates. There are no float types in
// any time computation.
//
// This package imports nothing internal.
package opentime
