// Package mhindex maintains the persistent uid index of an MH mail folder.
//
// Every message in a folder is addressed by its message number, which changes whenever the folder is packed or sorted.
// The index assigns each message a uid that never changes, and stores the mapping in both directions:
//
//	"<msgno>:msg:uid" => "<uid>"
//	"<uid>:uid:msg"   => "<msgno>"
//
// The next uid to hand out is kept under the key "file_header".
// Uids are never reused, not even after the message they were assigned to has been deleted.
//
//spellchecker:words mhindex msgno
package mhindex

//spellchecker:words math strconv
import (
	"math"
	"strconv"
)

// UID is the permanent identifier of a message within a folder.
// The zero UID is not valid, and is used to indicate the absence of a uid.
type UID uint32

// Valid checks if this UID is valid.
func (uid UID) Valid() bool {
	return uid != 0
}

// Next returns the UID following this one.
//
// When Next exceeds the maximum possible value for a UID, it panics.
func (uid UID) Next() UID {
	if uid == math.MaxUint32 {
		panic("UID.Next: Overflow")
	}
	return uid + 1
}

func (uid UID) String() string {
	return strconv.FormatUint(uint64(uid), 10)
}

// MsgNo is the position of a message within its folder.
// The zero MsgNo is not valid.
type MsgNo uint32

func (msgno MsgNo) String() string {
	return strconv.FormatUint(uint64(msgno), 10)
}
