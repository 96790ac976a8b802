package cli

import (
	"io"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/config"
	"github.com/felixgeelhaar/daybrief/internal/infrastructure/logging"
	"github.com/felixgeelhaar/daybrief/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
	"github.com/felixgeelhaar/daybrief/pkg/storage"
)

// newClock is swapped in tests to pin "now".
var newClock = func() planning.Clock { return planning.SystemClock{} }

// loadServices resolves config and builds the service graph. Logs go to
// logOut so command output on stdout stays clean.
func loadServices(logOut io.Writer) (*wiring.AppServices, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, MapError(err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	services, err := wiring.BuildAppServicesWithClock(cfg, logger, newClock())
	if err != nil {
		return nil, MapError(err)
	}
	return services, nil
}

// loadItems reads items from file, or falls back to the in-memory store.
func loadItems(services *wiring.AppServices, file string) ([]planning.WorkItem, error) {
	if file == "" {
		return services.Store.List()
	}
	items, err := storage.LoadItemsFile(file)
	if err != nil {
		return nil, MapError(err)
	}
	return items, nil
}
