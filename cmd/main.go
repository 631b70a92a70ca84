package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JaredDyreson/Scheduler/internal/config"
	"github.com/JaredDyreson/Scheduler/internal/google"
	"github.com/JaredDyreson/Scheduler/internal/ics"
	"github.com/JaredDyreson/Scheduler/internal/models"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "scheduler",
		Usage: "Build Google Calendar submission bodies from event packets.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to a YAML config file with packet defaults."},
		},
		Commands: []*cli.Command{
			formatCommand(),
			showCommand(),
			exportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// packetFlags are shared by every command that builds a packet.
func packetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "start", Usage: "Event start in " + models.TimeLayout + " form."},
		&cli.StringFlag{Name: "end", Usage: "Event end in " + models.TimeLayout + " form."},
		&cli.StringFlag{Name: "summary", Usage: "Event summary."},
		&cli.StringFlag{Name: "location", Usage: "Event location."},
		&cli.StringFlag{Name: "timezone", Usage: "IANA zone id used for wire offsets."},
		&cli.StringFlag{Name: "from-json", Usage: "Read the event from a JSON file ('-' for stdin) instead of flags."},
		&cli.BoolFlag{Name: "freebusy", Usage: "Treat the JSON input as the nested free/busy response shape."},
		&cli.BoolFlag{Name: "split-offsets", Usage: "Resolve begin and end UTC offsets independently."},
	}
}

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:  "format",
		Usage: "Print the calendar API submission body for an event.",
		Flags: packetFlags(),
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			packet, err := buildPacket(c)
			if err != nil {
				return err
			}
			logger.Debug("Built event packet", "summary", packet.Summary, "timezone", packet.Timezone)

			body, err := google.SubmissionBody(packet)
			if err != nil {
				return fmt.Errorf("failed to build submission body: %w", err)
			}
			fmt.Println(string(body))
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a human-readable view of an event.",
		Flags: packetFlags(),
		Action: func(c *cli.Context) error {
			packet, err := buildPacket(c)
			if err != nil {
				return err
			}
			fmt.Println(packet.String())
			fmt.Printf("Duration: %d seconds\n", packet.ElapsedSeconds())
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write an event as an iCalendar (.ics) file.",
		Flags: append(packetFlags(),
			&cli.StringFlag{Name: "out", Value: "event.ics", Usage: "Output file path."},
		),
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			packet, err := buildPacket(c)
			if err != nil {
				return err
			}

			f, err := os.Create(c.String("out"))
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()

			if err := ics.Write(f, packet); err != nil {
				return fmt.Errorf("failed to export event: %w", err)
			}
			logger.Info("Exported event", "file", c.String("out"), "summary", packet.Summary)
			return nil
		},
	}
}

// buildPacket assembles an event from the command line: defaults come from
// the config file and environment, flags override them, and the event itself
// comes either from --from-json or the --start/--end pair.
func buildPacket(c *cli.Context) (models.Event, error) {
	opts, err := loadOptions(c)
	if err != nil {
		return models.Event{}, err
	}
	if c.Bool("split-offsets") {
		opts.SplitOffsets = true
	}
	if l := c.String("location"); l != "" {
		opts.Location = l
	}
	if z := c.String("timezone"); z != "" {
		opts.Timezone = z
	}

	if src := c.String("from-json"); src != "" {
		body, err := readMapping(src)
		if err != nil {
			return models.Event{}, err
		}
		if c.Bool("freebusy") {
			return models.FromFreeBusy(body, opts)
		}
		return models.FromMapping(body, opts)
	}

	start, end := c.String("start"), c.String("end")
	if start == "" || end == "" {
		return models.Event{}, fmt.Errorf("either --from-json or both --start and --end are required")
	}
	return models.FromStrings(start, end, c.String("summary"), opts)
}

func loadOptions(c *cli.Context) (models.Options, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return models.Options{}, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	return cfg.Options(), nil
}

func readMapping(src string) (map[string]any, error) {
	var r io.Reader
	if src == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", src, err)
		}
		defer f.Close()
		r = f
	}

	var body map[string]any
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode JSON input: %w", err)
	}
	return body, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
