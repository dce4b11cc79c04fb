package zipreader_test

import (
	"fmt"
	"log"
	"os"

	"github.com/zipio/zipreader"
)

// Example demonstrates opening an archive from a path given on the command
// line, listing its entries, and extracting them into the current
// directory, mirroring the bundled extraction example this package's
// on-disk format tracking is grounded on.
func Example() {
	if len(os.Args) < 2 {
		return
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	archive, err := zipreader.Open(f)
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range archive.FileNames() {
		fmt.Println(name)
	}

	if err := archive.Extract("."); err != nil {
		log.Fatal(err)
	}
}
