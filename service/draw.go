package service

import (
	"encoding/binary"
	"math/big"
	"time"

	"lotto/models"

	"golang.org/x/crypto/sha3"
)

// systemEntropy reads the wall clock and the environment-supplied seed.
type systemEntropy struct {
	seed string
}

// NewSystemEntropy creates the production entropy source
func NewSystemEntropy(seed string) EntropySource {
	return &systemEntropy{seed: seed}
}

func (s *systemEntropy) Draw() models.Entropy {
	return models.Entropy{
		Timestamp: time.Now().Unix(),
		Seed:      s.seed,
	}
}

// winnerIndex derives the winning index from the draw context. The scheme is
// Keccak-256(timestamp || seed || entrantCount || caller) mod entrantCount:
// deterministic given its inputs and NOT cryptographically secure. Anyone who
// can predict the timestamp and seed can predict the result; this weakness is
// inherited from the original selection scheme on purpose, since replacing it
// would change observable outcomes.
func winnerIndex(e models.Entropy, entrantCount int, callerID int64) int {
	buf := make([]byte, 0, 24+len(e.Seed))
	buf = binary.BigEndian.AppendUint64(buf, uint64(e.Timestamp))
	buf = append(buf, e.Seed...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(entrantCount))
	buf = binary.BigEndian.AppendUint64(buf, uint64(callerID))

	h := sha3.NewLegacyKeccak256()
	h.Write(buf)
	sum := h.Sum(nil)

	index := new(big.Int).SetBytes(sum)
	index.Mod(index, big.NewInt(int64(entrantCount)))
	return int(index.Int64())
}
