package blockqueue

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ef-ds/deque"
)

// defaultImportedWindow bounds the imported set when no reorg depth is configured.
const defaultImportedWindow = 4096

// importedSet remembers hashes the importer reported as imported, so their children are ordered even before the chain
// collaborator catches up. Oldest hashes fall out once window newer imports were recorded. The queue lock guards it.
type importedSet struct {
	headers map[chainhash.Hash]*wire.BlockHeader
	order   deque.Deque
	window  int
}

func newImportedSet(window int) *importedSet {
	if window <= 0 {
		window = defaultImportedWindow
	}
	return &importedSet{
		headers: make(map[chainhash.Hash]*wire.BlockHeader),
		window:  window,
	}
}

// record adds hash with its header, which may be nil when the queue never staged the block.
func (s *importedSet) record(hash chainhash.Hash, header *wire.BlockHeader) {
	if _, ok := s.headers[hash]; ok {
		if header != nil {
			s.headers[hash] = header
		}
		return
	}
	s.headers[hash] = header
	s.order.PushBack(hash)
	for s.order.Len() > s.window {
		v, _ := s.order.PopFront()
		delete(s.headers, v.(chainhash.Hash))
	}
}

// lookup reports whether hash was imported and returns its header when one was recorded.
func (s *importedSet) lookup(hash chainhash.Hash) (*wire.BlockHeader, bool) {
	header, ok := s.headers[hash]
	return header, ok
}

func (s *importedSet) len() int {
	return len(s.headers)
}
