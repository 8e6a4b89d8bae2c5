package grizzly

import (
	"context"

	"github.com/autom8ter/grizzly/errors"
	"github.com/samber/lo"
)

// runTriggers executes the global triggers and the collection's own triggers registered
// for the event's operation. A failing trigger does not roll the command back - the
// command has already committed.
func (d *DB) runTriggers(ctx context.Context, config *CollectionConfig, event Event) error {
	triggers := append([]Trigger{}, d.globalTriggers...)
	if config != nil {
		triggers = append(triggers, config.Triggers...)
	}
	for _, trigger := range triggers {
		if !lo.Contains(trigger.On, event.Operation) {
			continue
		}
		vm, err := getJavascriptVM(ctx, d, map[string]any{
			"event": event,
		})
		if err != nil {
			return err
		}
		if _, err := vm.RunString(trigger.Script); err != nil {
			return errors.Wrap(err, errors.Internal, "trigger %s failed on %s", trigger.Name, event.Namespace())
		}
	}
	return nil
}
