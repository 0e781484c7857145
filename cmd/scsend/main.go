package main

/*------------------------------------------------------------------
 *
 * Purpose:	Send a compiled synth definition to a running scsynth
 *		server as a /d_recv OSC message.
 *
 * Usage:	scsend [ options ] file.scsyndef
 *
 *		By default the server is located by browsing DNS-SD for
 *		a _scsynth._udp instance; --host/--port bypass discovery
 *		and address a server directly.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/shakfu/nanosynth-go/internal/osc"
	"github.com/shakfu/nanosynth-go/internal/transport"
)

func main() {
	host := pflag.StringP("host", "H", "", "scsynth host; skips discovery when set together with --port.")
	port := pflag.IntP("port", "P", 0, "scsynth UDP port; skips discovery when set together with --host.")
	discoverTimeout := pflag.Duration("discover-timeout", 3*time.Second, "How long to browse DNS-SD before giving up.")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Parse()

	if *help || pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scsend [options] file.scsyndef")
		pflag.PrintDefaults()
		if *help {
			os.Exit(0)
		}
		os.Exit(1)
	}

	defBytes, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "scsend:", err)
		os.Exit(1)
	}

	targetHost, targetPort := *host, *port
	if targetHost == "" || targetPort == 0 {
		targetHost, targetPort, err = transport.Discover(context.Background(), *discoverTimeout)
		if err != nil {
			fmt.Fprintln(os.Stderr, "scsend: discovery failed, and no --host/--port given:", err)
			os.Exit(1)
		}
	}

	conn, err := transport.Dial(targetHost, targetPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scsend:", err)
		os.Exit(1)
	}
	defer conn.Close()

	msg, err := osc.Message("/d_recv", defBytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scsend:", err)
		os.Exit(1)
	}

	if err := conn.Send(msg); err != nil {
		fmt.Fprintln(os.Stderr, "scsend:", err)
		os.Exit(1)
	}

	fmt.Printf("sent %d bytes to %s:%d\n", len(defBytes), targetHost, targetPort)
}
