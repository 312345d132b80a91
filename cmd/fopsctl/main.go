// fopsctl inspects a saved flight operations snapshot without starting the
// server: seat maps, revenue, open seats, seated manifests and a CSV export.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cx-tal-miterani/flight-operations-manager/internal/airline"
	"github.com/cx-tal-miterani/flight-operations-manager/internal/storage"
	"github.com/spf13/pflag"
)

const usage = `usage: fopsctl [flags] <command> [args]

commands:
  list                  list flights in the snapshot
  seatmap <flight>      print the seat map of a flight
  available <flight>    list the open seats of a flight
  revenue <flight>      print seat and flat fare revenue of a flight
  manifest <flight>     list seated passengers in seat order
  export-csv            write the passenger manifest as CSV

flags:
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts := storage.Options{Backend: storage.BackendFile}
	var output string
	var plain bool

	flagSet := pflag.NewFlagSet("fopsctl", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Backend, "storage", opts.Backend, "storage backend: file, sqlite, postgres, redis")
	flagSet.StringVar(&opts.Path, "file", "data/flights.json", "snapshot file or sqlite database path")
	flagSet.StringVar(&opts.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	flagSet.StringVar(&opts.RedisAddr, "redis-addr", "localhost:6379", "Redis host:port")
	flagSet.StringVar(&opts.RedisPrefix, "redis-prefix", "fom:", "Redis key prefix")
	flagSet.StringVarP(&output, "output", "o", "", "export-csv destination (default stdout)")
	flagSet.BoolVar(&plain, "plain", false, "print the seat map without colors")
	flagSet.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return errors.New("missing command")
	}

	store, err := storage.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	flights, err := store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load flights: %w", err)
	}
	fleet := airline.New("fopsctl")
	if err := fleet.SetFlights(flights); err != nil {
		return err
	}

	command := rest[0]
	flight := func() (*airline.Flight, error) {
		if len(rest) < 2 {
			return nil, fmt.Errorf("%s needs a flight number", command)
		}
		return fleet.Flight(rest[1])
	}

	switch command {
	case "list":
		for _, f := range fleet.Flights() {
			fmt.Fprintf(out, "%-8s %-20s %-20s %3d/%d seated\n",
				f.Number(), f.Origin(), f.Destination(), f.OccupiedSeats(), len(f.Seats()))
		}
		return nil

	case "seatmap":
		f, err := flight()
		if err != nil {
			return err
		}
		if plain {
			_, err = io.WriteString(out, f.SeatMap())
			return err
		}
		_, err = io.WriteString(out, renderSeatMap(f, newSeatStyles()))
		return err

	case "available":
		f, err := flight()
		if err != nil {
			return err
		}
		seats := f.AvailableSeats()
		fmt.Fprintf(out, "%d seats available on %s\n", len(seats), f.Number())
		fmt.Fprintln(out, strings.Join(seats, " "))
		return nil

	case "revenue":
		f, err := flight()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d occupied, seat revenue %.2f, flat fare revenue %.2f\n",
			f.Number(), f.OccupiedSeats(), f.Revenue(), f.FlatFareRevenue())
		return nil

	case "manifest":
		f, err := flight()
		if err != nil {
			return err
		}
		seated := f.SeatedPassengers()
		for _, p := range seated {
			fmt.Fprintf(out, "%-4s %s\n", p.SeatID(), p.FullName())
		}
		fmt.Fprintf(out, "%d of %d passengers seated on %s\n", len(seated), len(f.Passengers()), f.Number())
		return nil

	case "export-csv":
		w := out
		if output != "" {
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}
		return storage.ExportCSV(w, fleet.Flights())

	default:
		flagSet.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
