package pipeline

// defaultRegistry is the process-wide dispatcher, populated once by
// RegisterDefaults and treated as read-only afterward (spec.md §4.3,
// §5 "Shared-resource policy").
var defaultRegistry = NewRegistry()

// RegisterDefaults registers every built-in topic pipeline. Safe to
// call more than once; Register is idempotent.
func RegisterDefaults() *Registry {
	defaultRegistry.Register(CryptoPipeline{})
	defaultRegistry.Register(CryptoIntradayPipeline{})
	defaultRegistry.Register(MacroPipeline{})
	defaultRegistry.Register(RatesPipeline{})
	defaultRegistry.Register(ElectionsPipeline{})
	defaultRegistry.Register(CommoditiesPipeline{})
	defaultRegistry.Register(SportsPipeline{})
	defaultRegistry.Register(GeopoliticsPipeline{})
	defaultRegistry.Register(EntertainmentPipeline{})
	defaultRegistry.Register(FinancePipeline{})
	defaultRegistry.Register(ClimatePipeline{})
	defaultRegistry.Register(UniversalPipeline{})
	return defaultRegistry
}

// DefaultRegistry returns the process-wide registry, registering
// defaults on first access.
func DefaultRegistry() *Registry {
	if len(defaultRegistry.Topics()) == 0 {
		RegisterDefaults()
	}
	return defaultRegistry
}
