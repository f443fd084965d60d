package reconcile

import (
	"encoding/binary"

	"github.com/ipfs/go-cid"
	"github.com/minio/blake2b-simd"
	sha256simd "github.com/minio/sha256-simd"
	"github.com/multiformats/go-multihash"
)

// reportCid hashes a DelegationsReport's height, total, and per-slot amounts
// into a deterministic digest and wraps it as a raw-codec CIDv1. The digest
// is computed with an accelerated sha256 implementation; blake2b-simd
// backs dedupeKey below, the cheaper check a host runs before bothering
// with the full report hash.
func reportCid(r DelegationsReport) cid.Cid {
	h := sha256simd.New()
	writeReportBytes(h, r)

	mh, err := multihash.Encode(h.Sum(nil), multihash.SHA2_256)
	if err != nil {
		panic("reconcile: failed to encode report digest as a multihash: " + err.Error())
	}

	return cid.NewCidV1(cid.Raw, mh)
}

// dedupeKey is a cheap fixed-size fingerprint of a report, suitable for a
// host adapter's idempotency/dedupe table where a full CID is more than is
// needed.
func dedupeKey(r DelegationsReport) [blake2b.Size]byte {
	h := blake2b.New()
	writeReportBytes(h, r)
	var out [blake2b.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func writeReportBytes(w byteWriter, r DelegationsReport) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], r.Height)
	_, _ = w.Write(buf[:])
	_, _ = w.Write(r.TotalDelegated.BigInt().Bytes())
	for _, amount := range r.PerSlot {
		_, _ = w.Write(amount.BigInt().Bytes())
	}
}
