// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kernelhash

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/kiln/lib/codec"
	"github.com/bureau-foundation/kiln/lib/kernelprops"
)

// Digest is a 32-byte BLAKE3 digest identifying one (source,
// properties) pair.
type Digest [32]byte

// domainKey is a 32-byte BLAKE3 key. Changing any of these values
// invalidates every existing cache entry.
type domainKey [32]byte

var (
	sourceDomainKey = domainKey{
		'k', 'i', 'l', 'n', '.', 'k', 'e', 'r', 'n', 'e', 'l', '.',
		's', 'o', 'u', 'r', 'c', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	propertyDomainKey = domainKey{
		'k', 'i', 'l', 'n', '.', 'k', 'e', 'r', 'n', 'e', 'l', '.',
		'p', 'r', 'o', 'p', 'e', 'r', 't', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	digestDomainKey = domainKey{
		'k', 'i', 'l', 'n', '.', 'k', 'e', 'r', 'n', 'e', 'l', '.',
		'd', 'i', 'g', 'e', 's', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// Compute returns the digest of source combined with the tracked
// properties.
func Compute(source []byte, properties kernelprops.Properties) Digest {
	hasher := newHasher(sourceDomainKey)
	hasher.Write(source)
	return combine(sum(hasher), Properties(properties))
}

// Properties returns the order-insensitive combination of the tracked
// property hashes. An empty set yields the zero value.
func Properties(properties kernelprops.Properties) Digest {
	var combined Digest
	for name, value := range properties {
		if _, skip := kernelprops.Untracked[name]; skip {
			continue
		}
		propertyHash := Property(name, value)
		for i := range combined {
			combined[i] ^= propertyHash[i]
		}
	}
	return combined
}

// Property hashes a single named property. The value is normalized and
// encoded as deterministic CBOR so nested maps hash independently of
// iteration order and 16 hashes the same whether it came from YAML
// (int) or JSON (float64).
func Property(name string, value any) Digest {
	encoded, err := codec.Marshal(normalize(value))
	if err != nil {
		// Values that CBOR cannot encode (channels, functions) never come
		// out of a config decoder; fall back to their printed form.
		encoded = []byte(fmt.Sprintf("%#v", value))
	}

	hasher := newHasher(propertyDomainKey)
	hasher.Write([]byte(name))
	hasher.Write([]byte{0})
	hasher.Write(encoded)
	return sum(hasher)
}

// Format returns the canonical lowercase hex form of a digest. It is
// used as the cache directory name.
func Format(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// String implements fmt.Stringer with [Format].
func (d Digest) String() string {
	return Format(d)
}

// Short returns the first 12 hex characters, for log lines.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing kernel digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("kernel digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}

func combine(sourceHash, propertyHash Digest) Digest {
	hasher := newHasher(digestDomainKey)
	hasher.Write(sourceHash[:])
	hasher.Write(propertyHash[:])
	return sum(hasher)
}

func newHasher(key domainKey) *blake3.Hasher {
	// NewKeyed only fails for keys that are not 32 bytes, which the
	// domainKey type rules out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("kernelhash: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

func sum(hasher *blake3.Hasher) Digest {
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// normalize rewrites integral floats as int64 (recursively) so that
// numeric values hash the same regardless of which decoder produced
// them.
func normalize(value any) any {
	switch typed := value.(type) {
	case float64:
		if typed == math.Trunc(typed) && math.Abs(typed) < 1<<53 {
			return int64(typed)
		}
		return typed
	case float32:
		return normalize(float64(typed))
	case int:
		return int64(typed)
	case map[string]any:
		result := make(map[string]any, len(typed))
		for key, element := range typed {
			result[key] = normalize(element)
		}
		return result
	case kernelprops.Properties:
		return normalize(map[string]any(typed))
	case []any:
		result := make([]any, len(typed))
		for i, element := range typed {
			result[i] = normalize(element)
		}
		return result
	case []string:
		result := make([]any, len(typed))
		for i, element := range typed {
			result[i] = element
		}
		return result
	case map[string]string:
		result := make(map[string]any, len(typed))
		for key, element := range typed {
			result[key] = element
		}
		return result
	default:
		return value
	}
}
