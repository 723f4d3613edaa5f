// liftover2d converts the coordinates of chromatin contact pairs between
// genome assemblies using a UCSC chain file.
//
// usage: liftover2d <pairs|verify> [flags]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/storage"
	liftover2d "github.com/heilcheng/liftover-2d"
	"github.com/heilcheng/liftover-2d/compileinfo"
)

var client *storage.Client

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s <command> [flags]

Commands:
  pairs    lift the coordinates of a pair table onto a new assembly
  verify   compare this engine's lifts against a full chain-file implementation
  version  print build information

Run '%s <command> -h' for the flags of each command.
`, os.Args[0], os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "pairs":
		err = runPairs(args)
	case "verify":
		err = runVerify(args)
	case "version", "-version", "--version":
		fmt.Println(compileinfo.Get())
	case "-h", "-help", "--help", "help":
		usage()
	default:
		usage()
		log.Fatalf("Unknown command %q\n", cmd)
	}

	if err != nil {
		log.Fatalln(err)
	}
}

// initStorageClient creates the Google Storage client if any of paths needs
// it.
func initStorageClient(paths ...string) error {
	for _, path := range paths {
		if !liftover2d.IsGoogleStoragePath(path) {
			continue
		}
		var err error
		client, err = storage.NewClient(context.Background())
		return err
	}
	return nil
}
