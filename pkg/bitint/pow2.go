// SPDX-License-Identifier: MIT

/*
Package bitint provides the small power-of-two helpers used when sizing
analysis windows and frame buffers.

All functions are allocation free and constant time, so they are safe to
call from the audio callback.

	// A spectral window must be a power of two.
	if !bitint.IsPowerOfTwo(256) { ... }

	// Round a requested block size up to the next usable window.
	size := bitint.NextPowerOfTwo(1000) // 1024

NextPowerOfTwo subtracts one before taking the bit length, which keeps exact
powers of two unchanged: bits.Len(8-1) is 3 and 1<<3 is 8 again, while
bits.Len(8) would be 4 and double the input.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size.
// Zero and negative sizes return 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
// A power of two has exactly one bit set, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// BinCount returns the number of magnitude bins a window of fftSize
// samples yields, or 0 if fftSize is not a power of two.
func BinCount(fftSize int) int {
	if !IsPowerOfTwo(fftSize) {
		return 0
	}
	return fftSize >> 1
}
