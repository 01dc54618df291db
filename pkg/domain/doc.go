/*
Package domain contains the core models of the skelly trajectory system.

It defines the anatomical partitioning of a tracker's landmark axis and the
runtime containers that hold per-landmark trajectories. This package is kept
pure and free of I/O, registries or persistence concerns.

# Key Entities

  - AspectName: the closed set of anatomical regions (body, face, left_hand, right_hand).
  - AnatomicalStructure: the ordered, immutable list of landmark names for one region.
  - TrackedPoints / ReprojectionError: row-major raw arrays produced by a tracker.
  - TrajectoryContainer: per-landmark coordinate sequences (and optional error) for one region.
  - Aspect: a named bundle of structure, metadata and trajectories.
*/
package domain
