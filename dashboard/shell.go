package dashboard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weather-dashboard/display"
)

// ErrUnknownCommand is returned by Execute for input it does not understand
var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Commands:
  search <city>        show the weather for a city
  search #<n>          search again for the n-th history entry
  toggle               switch between °C and °F
  forecast [city]      show the forecast, for the city on screen by default
  show <section>       weather, forecast, history or settings
  history              list recent searches
  clear-history        forget recent searches
  settings             list settings
  set <key> <value>    change a setting
  reset-settings       restore every setting to its default
  clock                print the current date and time
  help                 print this help
  quit                 leave
`

// Shell drives a Dashboard from text commands
type Shell struct {
	dash *Dashboard
	out  io.Writer
}

// NewShell creates a shell writing to out
func NewShell(dash *Dashboard, out io.Writer) *Shell {
	return &Shell{dash: dash, out: out}
}

// Run reads commands from in until quit, end of input or ctx is done
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
		fmt.Fprint(s.out, "> ")
	}
	return scanner.Err()
}

// Execute runs one command line. It reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.Join(args, " ")

	switch cmd {
	case "search":
		if strings.HasPrefix(rest, "#") {
			n, err := strconv.Atoi(rest[1:])
			if err != nil {
				return false, fmt.Errorf("%w: %s", ErrNoSuchEntry, rest)
			}
			if err := s.dash.SearchFromHistory(ctx, n); err != nil {
				return false, err
			}
		} else if err := s.dash.Search(ctx, rest); err != nil {
			if errors.Is(err, ErrBusy) {
				return false, err
			}
			// the notifier already told the user
			return false, nil
		}
		return false, s.show(ctx, display.SectionWeather)

	case "toggle":
		if _, err := s.dash.ToggleUnits(); err != nil {
			// the notifier already told the user
			return false, nil
		}
		return false, s.render()

	case "forecast":
		city := rest
		if city == "" {
			city = s.dash.City()
		}
		err := s.dash.LoadForecast(ctx, city)
		s.dash.Panel().SetSection(display.SectionForecast)
		if rerr := s.render(); rerr != nil {
			return false, rerr
		}
		if errors.Is(err, ErrEmptyCity) {
			return false, nil
		}
		return false, err

	case "show":
		section, ok := display.ParseSection(rest)
		if !ok {
			return false, fmt.Errorf("unknown section %q", rest)
		}
		return false, s.show(ctx, section)

	case "history":
		return false, s.show(ctx, display.SectionHistory)

	case "clear-history":
		if err := s.dash.ClearHistory(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "History cleared.")
		return false, nil

	case "settings":
		return false, s.show(ctx, display.SectionSettings)

	case "set":
		if len(args) < 1 {
			return false, errors.New("usage: set <key> <value>")
		}
		if err := s.dash.UpdateSetting(args[0], strings.Join(args[1:], " ")); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Saved %s.\n", args[0])
		return false, nil

	case "reset-settings":
		if err := s.dash.ResetSettings(); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "Settings reset.")
		return false, nil

	case "clock":
		out := s.dash.ClockOutput()
		fmt.Fprintf(s.out, "%s  %s\n", out.Date, out.Time)
		return false, nil

	case "help":
		fmt.Fprint(s.out, helpText)
		return false, nil

	case "quit", "exit":
		return true, nil
	}

	return false, fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, cmd)
}

func (s *Shell) show(ctx context.Context, section display.Section) error {
	err := s.dash.ShowSection(ctx, section)
	if rerr := s.render(); rerr != nil {
		return rerr
	}
	return err
}

func (s *Shell) render() error {
	return s.dash.Panel().Render(s.out)
}
