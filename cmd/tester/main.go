package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Config defines the load driver environment variables.
type Config struct {
	ServerAddress string        `env:"BOARD_SERVER_ADDR,default=localhost:5000"`
	Sessions      int           `env:"TESTER_SESSIONS,default=5"`
	Posts         int           `env:"TESTER_POSTS,default=10"`
	Warmup        time.Duration `env:"TESTER_WARMUP,default=500ms"`
	Drain         time.Duration `env:"TESTER_DRAIN,default=1s"`
}

type result struct {
	name     string
	sent     int
	received int
	err      error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Tester error: %v\n", err)
		os.Exit(1)
	}
}

// run connects Sessions concurrent clients, posts Posts messages from
// each, then prints a delivery summary table.
func run() error {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	color.New(color.BgBlack, color.FgGreen).Println("  ====== bulletin board load driver ======")
	fmt.Printf("target=%s sessions=%d posts=%d\n", cfg.ServerAddress, cfg.Sessions, cfg.Posts)

	started := time.Now()
	results := make([]result, cfg.Sessions)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Sessions; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = drive(cfg, idx)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(started)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Session", "Sent", "Received", "Status"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	totalSent, totalReceived := 0, 0
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = r.err.Error()
		}
		totalSent += r.sent
		totalReceived += r.received
		table.Append([]string{r.name, strconv.Itoa(r.sent), strconv.Itoa(r.received), status})
	}
	table.Render()

	fmt.Printf("total sent=%d received=%d in %v\n", totalSent, totalReceived, elapsed.Round(time.Millisecond))
	return nil
}

// drive runs one scripted session: handshake, warmup, Posts public posts,
// then a drain window counting every line the server pushes back.
func drive(cfg Config, idx int) result {
	name := fmt.Sprintf("tester-%s", uuid.NewString()[:8])
	res := result{name: name}

	conn, err := net.Dial("tcp", cfg.ServerAddress)
	if err != nil {
		res.err = err
		return res
	}
	defer conn.Close()

	received := make(chan int, 1)
	go func() {
		count := 0
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			count++
		}
		received <- count
	}()

	if _, err := fmt.Fprintln(conn, name); err != nil {
		res.err = err
		return res
	}
	time.Sleep(cfg.Warmup)

	for i := 0; i < cfg.Posts; i++ {
		line := fmt.Sprintf("%%post load-%d-%d generated by %s", idx, i, name)
		if _, err := fmt.Fprintln(conn, line); err != nil {
			res.err = err
			break
		}
		res.sent++
	}

	time.Sleep(cfg.Drain)
	_ = conn.Close()
	res.received = <-received
	return res
}
