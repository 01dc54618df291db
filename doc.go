/*
Package skelly organizes motion-capture tracker output into a hierarchy of
anatomical regions.

A tracker (e.g. MediaPipe holistic) emits one flat array per batch with axes
(frames, landmarks, dims). skelly partitions the landmark axis into named
regions (body, face, left hand, right hand), each with an ordered list of
landmark names, and exposes the trajectories of every region on its own.

# Concept

  - Registry: tracker kind -> layout (which raw indices belong to which named landmark).
  - Actor: a named owner of aspects, built from a Config and a profile (Human).
  - Aspect: structure + metadata + trajectories for one region.
  - Splitter: slices raw arrays per region, preserving frame and index order.

# Usage

	package main

	import (
		"log"

		"github.com/aretw0/skelly"
		"github.com/aretw0/skelly/pkg/domain"
	)

	func main() {
		human, err := skelly.NewHuman("subject-01", skelly.DefaultConfig())
		if err != nil {
			log.Fatal(err)
		}

		points := domain.NewTrackedPoints(10, human.ExpectedLandmarks(), 3)
		if err := human.Ingest(points); err != nil {
			log.Fatal(err)
		}

		traj, _ := human.Body().Trajectories()
		log.Println("body frames:", traj.Frames())

		if hand, ok := human.LeftHand(); ok {
			log.Println("left hand landmarks:", hand.Structure().Len())
		}
	}

Every ingestion is all-or-nothing: a shape problem rejects the whole batch and
leaves every aspect as it was.
*/
package skelly
