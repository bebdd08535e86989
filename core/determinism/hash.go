// Package determinism fingerprints calculation inputs.
// Equal inputs always produce the same hash, whatever their decimal scale.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"dira-price/core/pricing"
)

// inputNamespace versions the canonical input encoding
const inputNamespace = "pricing-input/v1"

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// InputHash hashes the canonical form of a pricing input.
// Decimal fields are written in their shortest form, so 25000 and 25000.00 hash alike.
func InputHash(in pricing.Input) ContentHash {
	h := sha256.New()
	for _, part := range []string{
		inputNamespace,
		in.MainPricePerMeter.String(),
		in.CurrentPricePerMeter.String(),
		in.ApartmentSize.String(),
		in.BalconySize.String(),
		in.StorageSize.String(),
		strconv.Itoa(in.ParkingSpaces),
		string(in.AreaType),
		in.VATRate.String(),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0}) // Separator
	}

	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}
