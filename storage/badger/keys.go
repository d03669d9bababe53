package badger

import (
	"fmt"

	"github.com/campusloop/unibot/core"
)

// Key prefixes for different data types
const (
	documentPrefix   = "docrec"
	dimensionMetaKey = "idxmeta:dim"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}
