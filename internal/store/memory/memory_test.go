// internal/store/memory/memory_test.go
package memory

import (
	"testing"

	"github.com/shopfront/storefront-api/internal/store"
	"github.com/shopfront/storefront-api/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return New()
	})
}
