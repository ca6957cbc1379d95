package policy

import (
	"encoding/json"
	"fmt"
	"os"

	"shiptrack/internal/model"

	"github.com/rs/zerolog"
)

// transitionFile is the on-disk shape of a transition table: status
// name to the list of statuses it may move to.
type transitionFile map[string][]string

// LoadFromFile reads a transition table from a JSON file and builds a
// table policy from it. An empty path yields the permissive default.
func LoadFromFile(path string, logger zerolog.Logger) (TransitionPolicy, error) {
	log := logger.With().Str("component", "transition-policy").Logger()

	if path == "" {
		log.Info().Msg("no transition policy file configured, allowing all transitions")
		return AllowAll(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to read transition policy file")
		return nil, fmt.Errorf("failed to read transition policy file %s: %w", path, err)
	}

	var raw transitionFile
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to parse transition policy file")
		return nil, fmt.Errorf("failed to parse transition policy file %s: %w", path, err)
	}

	transitions := make(map[model.ShipmentStatus][]model.ShipmentStatus, len(raw))
	for fromRaw, tosRaw := range raw {
		from, err := model.ParseStatus(fromRaw)
		if err != nil {
			return nil, fmt.Errorf("transition policy file %s: %w", path, err)
		}
		tos := make([]model.ShipmentStatus, 0, len(tosRaw))
		for _, toRaw := range tosRaw {
			to, err := model.ParseStatus(toRaw)
			if err != nil {
				return nil, fmt.Errorf("transition policy file %s: %w", path, err)
			}
			tos = append(tos, to)
		}
		transitions[from] = tos
	}

	log.Info().
		Str("file", path).
		Int("states", len(transitions)).
		Msg("transition policy loaded")

	return NewTablePolicy(transitions), nil
}
