/*
Package actor composes anatomical aspects into a named owner and routes raw
tracker output to them.

An Actor is built from a Config (tracker kind plus which optional regions to
include), a registry of tracker layouts and a Profile. The Human profile always
has a body and optionally a face and two hands. Construction resolves the
tracker layout, validates it and creates one Aspect per enabled region.

Ingest splits a raw (frames × landmarks × dims) array across every region of
the tracker layout and hands each enabled region its slice. A call either
replaces the data of every enabled aspect or changes nothing.

	reg := registry.Default()
	human, err := actor.NewHuman("subject-01", actor.DefaultConfig(), reg)
	if err != nil {
		log.Fatal(err)
	}
	if err := human.Ingest(points); err != nil {
		log.Fatal(err)
	}
	body := human.Body()
	if face, ok := human.Face(); ok {
		_ = face
	}

An Actor is not safe for concurrent Ingest calls.
*/
package actor
