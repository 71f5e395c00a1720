package mhdb

import (
	"errors"
	"fmt"
	"os"
)

// Kind is the kind of filesystem object an item path refers to.
type Kind int

const (
	KindOther   Kind = iota // neither a folder nor a message
	KindFolder              // a directory, i.e. an MH folder
	KindMessage             // a regular file, i.e. an MH message
)

func (kind Kind) String() string {
	switch kind {
	case KindFolder:
		return "folder"
	case KindMessage:
		return "message"
	default:
		return "other"
	}
}

var errNoPath = errors.New("no path provided")

// Classify determines if path refers to a folder or a message by inspecting the filesystem.
//
// Unlike index path resolution, Classify does not look at the name of the path.
// It is used by front ends that need to know what the user actually pointed at.
func Classify(path string) (Kind, error) {
	if path == "" {
		return KindOther, errNoPath
	}

	stats, err := os.Stat(path)
	if err != nil {
		return KindOther, fmt.Errorf("stat failed (%s): %w", path, err)
	}

	switch mode := stats.Mode(); {
	case mode.IsDir():
		return KindFolder, nil
	case mode.IsRegular():
		return KindMessage, nil
	default:
		return KindOther, nil
	}
}

// IsFolder checks if path is a directory.
func IsFolder(path string) (ok bool, err error) {
	kind, err := Classify(path)
	return kind == KindFolder, err
}
