// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package arith

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/chacha20"
)

// RandomSource supplies random bytes to the randomized constructors and to
// the probabilistic primality tests. Implementations must return n
// cryptographically suitable bytes; a source is deterministic only when
// explicitly seeded, which is reserved for tests.
type RandomSource interface {
	Bytes(n int) []byte
}

type cryptoSource struct{}

// CryptoSource returns a RandomSource backed by crypto/rand. A failing
// system randomness read is unrecoverable and panics.
func CryptoSource() RandomSource {
	return cryptoSource{}
}

func (cryptoSource) Bytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(arithmeticFaultf("system randomness unavailable: %v", err))
	}
	return b
}

type chachaSource struct {
	cipher *chacha20.Cipher
}

// NewDeterministicSource returns a RandomSource whose output is a ChaCha20
// keystream keyed by seed. Two sources with the same seed produce the same
// byte stream; use only for reproducible tests.
func NewDeterministicSource(seed []byte) RandomSource {
	key := sha256.Sum256(seed)
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		panic(err) // key and nonce sizes are correct by construction
	}
	return &chachaSource{cipher: cipher}
}

func (s *chachaSource) Bytes(n int) []byte {
	b := make([]byte, n)
	s.cipher.XORKeyStream(b, b)
	return b
}

// randomBits returns a uniformly random non-negative integer of at most
// bits bits.
func randomBits(bits int, source RandomSource) *big.Int {
	if bits <= 0 {
		return new(big.Int)
	}
	nbBytes := (bits + 7) / 8
	b := source.Bytes(nbBytes)
	if excess := 8*nbBytes - bits; excess > 0 {
		b[0] &= 0xff >> excess
	}
	return new(big.Int).SetBytes(b)
}

// statDist is the default statistical distance parameter, in bits, for
// sampling integers in a non-power-of-two range.
const statDist = 64

// randomMod returns an integer statistically close to uniform in [0, m).
func randomMod(m *big.Int, source RandomSource) *big.Int {
	r := randomBits(m.BitLen()+statDist, source)
	return r.Mod(r, m)
}
