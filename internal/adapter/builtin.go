package adapter

import "fmt"

// Builtins returns the built-in registration table in enumeration order
func Builtins(src *SourceReader) []Registration {
	return []Registration{
		TextRegistration(src),
		NmapRegistration(src),
		SSHKeysRegistration(src),
		GoRegistration(src),
		JSONRegistration(src),
		YAMLRegistration(src),
		HCLRegistration(src),
	}
}

// RegisterBuiltins registers every built-in adapter.
// Adapters missing from configs use DefaultAdapterConfig.
func RegisterBuiltins(r *Registry, src *SourceReader, configs map[string]AdapterConfig) error {
	for _, reg := range Builtins(src) {
		cfg, ok := configs[reg.Descriptor.ID]
		if !ok {
			cfg = DefaultAdapterConfig()
		}
		if err := r.Register(reg, cfg); err != nil {
			return fmt.Errorf("register builtin: %w", err)
		}
	}
	return nil
}
