package catalog

import (
	"os"
	"slices"
)

// FileStamp is the staleness fingerprint of one contributing file. Absent
// files carry ModTime and Size of -1.
type FileStamp struct {
	Path    string
	ModTime int64
	Size    int64
}

// Absent reports whether the file was missing when stamped.
func (f FileStamp) Absent() bool {
	return f.ModTime == -1 && f.Size == -1
}

// Signature is the ordered set of stamps for every file a catalog was built
// from.
type Signature []FileStamp

// Equal reports whether every stamp in s matches the stamp at the same
// position in other.
func (s Signature) Equal(other Signature) bool {
	return slices.Equal(s, other)
}

// StampFile captures path's modification time and size.
func StampFile(path string) FileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return FileStamp{Path: path, ModTime: -1, Size: -1}
	}
	return FileStamp{Path: path, ModTime: info.ModTime().UnixNano(), Size: info.Size()}
}

// StaleSignature stamps each of paths in order.
func StaleSignature(paths []string) Signature {
	sig := make(Signature, 0, len(paths))
	for _, p := range paths {
		sig = append(sig, StampFile(p))
	}
	return sig
}
