package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/clock/fakeclock"

	"weather-dashboard/datetime"
)

// targetFunc adapts a function to a datetime.Target
type targetFunc func(text string)

func (f targetFunc) SetText(text string) {
	f(text)
}

func main() {
	format := flag.String("format", "12", "Time format: 12 or 24")
	count := flag.Int("n", 5, "Number of ticks to print")
	interval := flag.Duration("interval", time.Second, "Time between ticks")
	start := flag.String("at", "", "Render from a fixed start time (RFC3339) instead of waiting for the wall clock")
	flag.Parse()

	f, ok := datetime.ParseTimeFormat(*format)
	if !ok {
		log.Fatalf("Unknown time format %q, expected 12 or 24", *format)
	}
	if *count <= 0 {
		return
	}

	fmt.Println("Clock Preview")
	fmt.Println("=============")

	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			log.Fatalf("Invalid start time: %v", err)
		}
		// A fake clock steps through the ticks without waiting
		fc := fakeclock.NewFakeClock(t)
		c := datetime.NewClock(fc, datetime.FixedFormat(f), nil, nil)
		for i := 0; i < *count; i++ {
			out := c.Tick()
			fmt.Printf("%s  %s\n", out.Date, out.Time)
			fc.Increment(*interval)
		}
		return
	}

	// Targets are only written from the clock goroutine
	var date string
	printed := 0
	done := make(chan struct{})
	dateTarget := targetFunc(func(text string) { date = text })
	timeTarget := targetFunc(func(text string) {
		if printed == *count {
			return
		}
		fmt.Printf("%s  %s\n", date, text)
		printed++
		if printed == *count {
			close(done)
		}
	})

	c := datetime.NewClock(clock.NewClock(), datetime.FixedFormat(f), dateTarget, timeTarget,
		datetime.WithInterval(*interval))
	stop := c.Start(context.Background())
	<-done
	stop()
}
