// Package systems is the explicit manifest of bundled diagnostic
// systems. RegisterAll populates a registry with every bundled system;
// adding a new system means adding its Register call to the manifest.
// There is no reflective discovery: what runs is what is listed here.
package systems

import (
	"fmt"

	"github.com/zjrosen/diagdash/internal/diag"
	"github.com/zjrosen/diagdash/internal/systems/generic"
	"github.com/zjrosen/diagdash/internal/systems/sensor"
)

// RegisterAll wires every bundled system into the registry. It must run
// before the runner or any registry query; registration errors are wiring
// mistakes and abort startup.
func RegisterAll(reg *diag.Registry) error {
	registrars := []struct {
		name string
		fn   func(*diag.Registry) error
	}{
		{sensor.Name, sensor.Register},
		{generic.Name, generic.Register},
	}

	for _, r := range registrars {
		if err := r.fn(reg); err != nil {
			return fmt.Errorf("registering system %q: %w", r.name, err)
		}
	}
	return nil
}
