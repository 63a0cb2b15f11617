package di

import (
	"path/filepath"

	"decayd/internal/providers"
	"decayd/internal/services"
	"decayd/internal/storage"
	"decayd/internal/structures"
)

func provideDatabase(conf *structures.Config) (storage.Database, error) {
	return storage.NewLevelDB(filepath.Join(conf.Storage.Dir, "db"))
}

// provideNode wires the event sink into the node so visibility flips reach
// the same outbound stream as burns and rewards.
func provideNode(conf *structures.Config, db storage.Database, compressor storage.CompressorInterface, ledger *storage.LedgerStore, logger providers.Logger, metrics providers.MetricsProviderInterface, sink services.EventSink) *storage.Node {
	node := storage.NewNode(conf, db, compressor, ledger, logger, metrics)
	node.SetVisibilitySink(sink)
	return node
}
