package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed node identifier: the SHA-256 of the path
// that created the node.
type NodeID [32]byte

// NewNodeID derives an ID from a creation path such as "cube/crate".
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether id is the zero value.
func (id NodeID) IsZero() bool {
	return id == NodeID{}
}

func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 6 bytes as hex, enough for log lines.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

// MarshalText encodes the ID as hex so it can key JSON objects.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex ID.
func (id *NodeID) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != len(id) {
		return fmt.Errorf("graph: node id %q has wrong length", b)
	}
	_, err := hex.Decode(id[:], b)
	return err
}
