package memcachefx

import (
	"go.uber.org/fx"

	mem "voyago/pkg/memcache"
)

var Module = fx.Provide(provideMemcacheClient)

func provideMemcacheClient() mem.Store {
	return mem.NewTTLStore(4096)
}
