// Command trackdump builds a track from a scene file and prints its
// geometry: length, ties, rails, scenery conflicts, and the pose of the
// train at evenly spaced path times.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
