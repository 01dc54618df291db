package skelly_test

import (
	"fmt"
	"log"

	"github.com/aretw0/skelly"
	"github.com/aretw0/skelly/pkg/domain"
)

// ExampleNewHuman splits one frame of MediaPipe holistic output into the
// aspects of a human actor.
func ExampleNewHuman() {
	// Body and hands only; the face slice of the raw array is discarded.
	cfg := skelly.DefaultConfig()
	cfg.IncludeFace = false

	actor, err := skelly.NewHuman("subject", cfg)
	if err != nil {
		log.Fatal(err)
	}

	raw := domain.NewTrackedPoints(1, actor.ExpectedLandmarks(), 3)
	if err := actor.Ingest(raw); err != nil {
		log.Fatal(err)
	}

	for _, asp := range actor.Aspects() {
		c, _ := asp.Trajectories()
		fmt.Printf("%s: %d landmarks, %d frame(s)\n", asp.Name(), len(c.Landmarks()), c.Frames())
	}
	// Output:
	// body: 33 landmarks, 1 frame(s)
	// left_hand: 21 landmarks, 1 frame(s)
	// right_hand: 21 landmarks, 1 frame(s)
}
