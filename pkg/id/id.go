// Package id mints the identifiers the order journal keys on. Order IDs are
// ULIDs: lexicographic order is creation order, so the orders table sorts by
// time on its primary key without a second index.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// orders is the process-wide generator behind NewOrder.
var orders = newGenerator()

func newGenerator() *generator {
	// Seed a PRNG from crypto/rand so the entropy half of the ULID is
	// unpredictable. ulid.Monotonic keeps IDs minted within the same
	// millisecond strictly increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &generator{entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)}
}

func (g *generator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), g.entropy)
	if err != nil {
		// Only possible if time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

// NewOrder returns the identifier for one order record.
func NewOrder() string {
	return orders.next()
}
