package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"BOARD_SERVER_ADDR,default=localhost:5000"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run drives the console menu. The client is deliberately thin: once
// connected it forwards every typed line verbatim and prints every
// received line verbatim, on two independent loops. The only local
// state is "connected or not".
func run() (int, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	stdin := bufio.NewScanner(os.Stdin)
	for {
		color.Bold.Println("Bulletin Board Client")
		fmt.Println("1. Connect to server")
		fmt.Println("2. Exit")
		fmt.Print("Choose an option: ")

		if !stdin.Scan() {
			return exitOK, nil
		}
		switch strings.TrimSpace(stdin.Text()) {
		case "1":
			if err := connectAndRun(stdin, cfg.ServerAddress); err != nil {
				color.Red.Printf("Connection failed: %v\n", err)
			}
		case "2":
			fmt.Println("Goodbye!")
			return exitOK, nil
		default:
			color.Yellow.Println("Unknown option.")
		}
	}
}

// connectAndRun dials the server and runs the two forwarding loops until
// %exit is typed or the server closes the stream.
func connectAndRun(stdin *bufio.Scanner, defaultAddr string) error {
	fmt.Printf("Server address (default %s): ", defaultAddr)
	if !stdin.Scan() {
		return nil
	}
	addr := strings.TrimSpace(stdin.Text())
	if addr == "" {
		addr = defaultAddr
	}
	if !strings.Contains(addr, ":") {
		addr += ":5000"
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	color.Green.Printf("Connected to %s.\n", addr)

	// Receive loop: print every server line verbatim.
	done := make(chan struct{})
	go func() {
		defer close(done)
		in := bufio.NewScanner(conn)
		for in.Scan() {
			fmt.Println(in.Text())
		}
	}()

	// Send loop: forward every typed line verbatim.
	for stdin.Scan() {
		line := stdin.Text()
		if _, err := fmt.Fprintln(conn, line); err != nil {
			break
		}
		if strings.EqualFold(strings.TrimSpace(line), "%exit") {
			break
		}
	}

	_ = conn.Close()
	<-done
	color.Yellow.Println("Disconnected from server.")
	return nil
}
