package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"fortio.org/safecast"

	"tccl/internal/ast"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// KeyFor hashes the encoded tree together with every option that changes
// the emitted listing.
func KeyFor(root *ast.Node, opts Options) (Digest, error) {
	data, err := ast.Marshal(root)
	if err != nil {
		return Digest{}, fmt.Errorf("hash tree: %w", err)
	}
	maxStack, err := safecast.Conv[uint32](max(opts.MaxStack, 0))
	if err != nil {
		return Digest{}, fmt.Errorf("hash options: %w", err)
	}
	var stack [4]byte
	binary.LittleEndian.PutUint32(stack[:], maxStack)
	return combineDigest(data, []byte(opts.AssemblyName), stack[:]), nil
}

// combineDigest: H(len(p1) || p1 || len(p2) || p2 ...).
func combineDigest(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
