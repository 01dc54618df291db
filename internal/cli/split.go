package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/skelly/pkg/actor"
	"github.com/aretw0/skelly/pkg/adapters/file"
	"github.com/aretw0/skelly/pkg/ports"
	"github.com/aretw0/skelly/pkg/registry"
)

// SplitOptions holds the inputs of the split command.
type SplitOptions struct {
	Actor      string
	Input      string
	Errors     string
	Config     actor.Config
	Save       bool
	Validation bool
}

// RunSplit loads a raw tracker array, ingests it into a new actor and writes
// a per-aspect report to w. With Save the actor snapshot goes to store.
func RunSplit(ctx context.Context, opts SplitOptions, reg *registry.Registry, store ports.SnapshotStore, logger *slog.Logger, w io.Writer) (*actor.Actor, error) {
	a, err := actor.NewHuman(opts.Actor, opts.Config, reg,
		actor.WithLogger(logger),
		actor.WithValidation(opts.Validation),
	)
	if err != nil {
		return nil, err
	}

	points, err := file.LoadTrackedPoints(opts.Input)
	if err != nil {
		return nil, err
	}
	if opts.Errors == "" {
		if err := a.Ingest(points); err != nil {
			return nil, fmt.Errorf("ingest %s: %w", opts.Input, err)
		}
	} else {
		errs, err := file.LoadReprojectionError(opts.Errors)
		if err != nil {
			return nil, err
		}
		if err := a.IngestWithErrors(points, errs); err != nil {
			return nil, fmt.Errorf("ingest %s with %s: %w", opts.Input, opts.Errors, err)
		}
	}

	fmt.Fprintf(w, "actor %s (%s, %s) batch %s\n", a.Name(), a.Type(), a.Tracker(), a.BatchID())
	fmt.Fprintln(w, RenderActor(a))

	if opts.Save {
		if store == nil {
			return nil, fmt.Errorf("save requested but no store configured")
		}
		if err := store.Save(ctx, a.Snapshot()); err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(w, "snapshot saved as %q\n", a.Name())
	}
	return a, nil
}
