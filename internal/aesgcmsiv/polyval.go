// Copyright (C) 2025 AIRA core contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package aesgcmsiv

import "encoding/binary"

// block128 is a 128-bit GF(2) polynomial, most-significant-bit-first: hi
// holds bits 0..63 (bit 0 is the MSB of the first byte), lo holds bits
// 64..127.
type block128 struct {
	hi, lo uint64
}

func loadBlock(b []byte) block128 {
	return block128{
		hi: binary.BigEndian.Uint64(b[0:8]),
		lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

func storeBlock(dst []byte, v block128) {
	binary.BigEndian.PutUint64(dst[0:8], v.hi)
	binary.BigEndian.PutUint64(dst[8:16], v.lo)
}

func testBit(v block128, i int) bool {
	if i < 64 {
		return v.hi&(uint64(1)<<(63-i)) != 0
	}
	return v.lo&(uint64(1)<<(63-(i-64))) != 0
}

// mulBlock computes x*h in GF(2^128) under the reduction polynomial
// x^128+x^7+x^2+x+1, per the bitwise algorithm in NIST SP 800-38D.
func mulBlock(x, h block128) block128 {
	var z block128
	v := h
	for i := 0; i < 128; i++ {
		if testBit(x, i) {
			z.hi ^= v.hi
			z.lo ^= v.lo
		}
		lsb := v.lo & 1
		v.lo = (v.lo >> 1) | (v.hi << 63)
		v.hi >>= 1
		if lsb == 1 {
			v.hi ^= 0xe100000000000000
		}
	}
	return z
}

// gfMulAdd computes (acc xor x) * h, the Horner step used by computeTag to
// fold each message block into the running hash under key h.
func gfMulAdd(acc, x, h block128) block128 {
	folded := block128{hi: acc.hi ^ x.hi, lo: acc.lo ^ x.lo}
	return mulBlock(folded, h)
}
