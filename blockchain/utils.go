package blockchain

import (
	"encoding/binary"

	t "tradeledger/types"
)

func encodeKey(pk t.PublicKey, data []byte) []byte {
	data = append(data, byte(pk.Scheme))
	// Append the # of bytes the key is
	data = binary.AppendUvarint(data, uint64(len(pk.Key)))
	data = append(data, pk.Key...)
	return data
}

func encodeBytes(b []byte, data []byte) []byte {
	data = binary.AppendUvarint(data, uint64(len(b)))
	data = append(data, b...)
	return data
}
