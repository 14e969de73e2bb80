// Copyright (c) 2019-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package hashmap

import (
	"fmt"
	"math"
)

// Hasher may be implemented by keys to supply the hash the map
// stores them under. Keys that implement Hasher must also be
// comparable with dyn.Equal.
type Hasher interface {
	Hash() uint32
}

// FNV-1a.
const (
	hashOffset = 2166136261
	hashPrime  = 16777619
)

// hash returns the 32 bit hash of a key. Strings, the built in
// numeric types, and bools are hashed directly; other key types must
// implement Hasher.
func hash(key interface{}) uint32 {
	switch k := key.(type) {
	case Hasher:
		return k.Hash()
	case string:
		return hashString(k)
	case int:
		return hashUint64(uint64(k))
	case int8:
		return hashUint64(uint64(k))
	case int16:
		return hashUint64(uint64(k))
	case int32:
		return hashUint64(uint64(k))
	case int64:
		return hashUint64(uint64(k))
	case uint:
		return hashUint64(uint64(k))
	case uint8:
		return hashUint64(uint64(k))
	case uint16:
		return hashUint64(uint64(k))
	case uint32:
		return hashUint64(uint64(k))
	case uint64:
		return hashUint64(k)
	case float32:
		return hashUint64(math.Float64bits(float64(k)))
	case float64:
		return hashUint64(math.Float64bits(k))
	case bool:
		if k {
			return hashUint64(1)
		}
		return hashUint64(0)
	default:
		panic(fmt.Sprintf("hashmap: no hash for key of type %T", key))
	}
}

func hashString(s string) uint32 {
	h := uint32(hashOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= hashPrime
	}
	return h
}

func hashUint64(v uint64) uint32 {
	h := uint32(hashOffset)
	for i := 0; i < 8; i++ {
		h ^= uint32(v & 0xff)
		h *= hashPrime
		v >>= 8
	}
	return h
}
