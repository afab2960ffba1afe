// Package guard forces test mode for packages that import it, keeping unit
// tests from starting the runtime or touching external services.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("MARGEM_TEST_MODE") == "" {
			_ = os.Setenv("MARGEM_TEST_MODE", "1")
		}
	})
}
