// deskbandctl sends one protocol command to a running deskbandd and prints
// the reply.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/csm10495/deskband/pkg/client"
	"github.com/csm10495/deskband/pkg/paths"
	"github.com/csm10495/deskband/pkg/protocol"
)

var socketPath = flag.String("socket", paths.SocketPath(), "daemon control socket")

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: deskbandctl [-socket path] TOKEN [TOKEN...]")
		fmt.Fprintln(os.Stderr, "examples:")
		fmt.Fprintln(os.Stderr, "  deskbandctl NEW")
		fmt.Fprintln(os.Stderr, "  deskbandctl SET RGB 255 0 0")
		fmt.Fprintln(os.Stderr, "  deskbandctl GET TEXTINFOCOUNT")
		os.Exit(2)
	}

	c, err := client.Dial(*socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deskbandctl: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	status, fields, err := c.Send(flag.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deskbandctl: %v\n", err)
		os.Exit(1)
	}
	if len(fields) > 0 {
		fmt.Println(strings.Join(fields, protocol.Delimiter))
	} else {
		fmt.Println(status)
	}
	if status != protocol.StatusOK {
		os.Exit(1)
	}
}
