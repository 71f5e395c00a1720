//spellchecker:words mhindex
package mhindex

//spellchecker:words strconv
import (
	"strconv"
)

// cspell:words msgno

const (
	forwardSuffix = ":msg:uid"
	reverseSuffix = ":uid:msg"

	counterKey = "file_header"
)

// ForwardKey returns the key storing the uid of the given message number.
func ForwardKey(msgno MsgNo) []byte {
	return appendKey(uint64(msgno), forwardSuffix)
}

// ReverseKey returns the key storing the message number of the given uid.
func ReverseKey(uid UID) []byte {
	return appendKey(uint64(uid), reverseSuffix)
}

// CounterKey returns the key storing the next uid to be allocated.
func CounterKey() []byte {
	return []byte(counterKey)
}

func appendKey(number uint64, suffix string) []byte {
	key := make([]byte, 0, 10+len(suffix))
	key = strconv.AppendUint(key, number, 10)
	return append(key, suffix...)
}

// encodeNumber encodes a number as an ascii decimal string.
func encodeNumber(number uint32) []byte {
	return strconv.AppendUint(nil, uint64(number), 10)
}

// decodeNumber decodes a value written by encodeNumber.
// key is only used for error reporting.
func decodeNumber(key, value []byte) (uint32, error) {
	number, err := strconv.ParseUint(string(value), 10, 32)
	if err != nil || number == 0 {
		return 0, &CorruptError{Key: string(key), Value: string(value)}
	}
	return uint32(number), nil
}
