package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// bootstrapEnvelope is the shape of messages sent by the supervising process.
// Older supervisors wrap the configuration in a "global" object and may send
// unrelated control messages on the same channel.
type bootstrapEnvelope struct {
	Global json.RawMessage `json:"global"`
	Port   *int            `json:"port"`
}

// ParseBootstrap turns one message from the supervising process into a
// validated [Config] with defaults applied.
//
// Accepted shapes are a bare configuration object
// ({"port": 4000, "certPublic": "...", ...}) and the same object wrapped in
// {"global": {...}}. Messages with neither a "global" object nor a "port" key
// yield [ErrNotBootstrapMessage].
func ParseBootstrap(msg []byte) (Config, error) {
	var env bootstrapEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Config{}, fmt.Errorf("%w: bootstrap message: %w", ErrInvalidConfig, err)
	}

	payload := msg
	switch {
	case len(env.Global) > 0 && !bytes.Equal(env.Global, []byte("null")):
		payload = env.Global
	case env.Port == nil:
		return Config{}, ErrNotBootstrapMessage
	}

	var jsonCfg jsonConfig
	if err := json.Unmarshal(payload, &jsonCfg); err != nil {
		return Config{}, fmt.Errorf("%w: bootstrap message: %w", ErrInvalidConfig, err)
	}

	cfg := jsonCfg.toConfig()
	if cfg.CertPublic == "" && cfg.CertPublicFile != "" {
		pem, err := readCertFile(cfg.CertPublicFile)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		cfg.CertPublic = pem
	}

	result := cfg.WithDefaults()
	return result, result.Validate()
}
