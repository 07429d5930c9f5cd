// decode converts a binary telemetry log to CSV on stdout, one line
// per tick, for loading into the training pipeline.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/relabs-tech/controlbot/internal/telemetry"
)

func main() {
	path := "tele.bin"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer f.Close()

	records, err := telemetry.ParseBinary(f)
	if err != nil {
		// A torn final record just means power went out mid-flush.
		log.Printf("%v", err)
	}

	fmt.Println("millis,heading,left_pos,right_pos,z")
	for _, r := range records {
		fmt.Printf("%d,%s,%d,%d,%d\n",
			r.Millis,
			strconv.FormatFloat(r.Heading, 'g', -1, 64),
			r.LeftPos, r.RightPos, r.Z)
	}
}
