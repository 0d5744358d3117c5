// Package fingerprint computes perceptual fingerprints for slide thumbnails.
//
// The fingerprint is an average-intensity hash over a 32x32 grid: the image
// is downscaled to 32x32 grayscale, each cell is compared against the mean
// intensity, and the resulting 1024 bits are hex-encoded. Identical pixels
// always produce identical fingerprints; visually similar images produce
// fingerprints with a small Hamming distance. The fingerprint is a similarity
// measure, not a dedup key - exact-duplicate detection uses the content hash.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"image"
	"math/bits"

	xdraw "golang.org/x/image/draw"
)

const (
	// hashSize is the edge length of the downscaled grid.
	hashSize = 32

	// Length is the length of a fingerprint string in hex characters.
	Length = hashSize * hashSize / 4
)

// Average computes the average-intensity hash of an image and returns it as a
// fixed-length hex string of Length characters.
func Average(img image.Image) string {
	gray := image.NewGray(image.Rect(0, 0, hashSize, hashSize))
	xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var sum uint64
	for _, px := range gray.Pix {
		sum += uint64(px)
	}
	mean := uint8(sum / uint64(len(gray.Pix)))

	packed := make([]byte, hashSize*hashSize/8)
	for i, px := range gray.Pix {
		if px > mean {
			packed[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return hex.EncodeToString(packed)
}

// Distance returns the Hamming distance between two fingerprints: the number
// of grid cells on which they disagree. Both arguments must be well-formed
// fingerprints of equal length.
func Distance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("fingerprint length mismatch: %d vs %d", len(a), len(b))
	}
	rawA, err := hex.DecodeString(a)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint: %w", err)
	}
	rawB, err := hex.DecodeString(b)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint: %w", err)
	}

	dist := 0
	for i := range rawA {
		dist += bits.OnesCount8(rawA[i] ^ rawB[i])
	}
	return dist, nil
}
