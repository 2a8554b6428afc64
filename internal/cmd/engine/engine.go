// Package engine parses engine command flags and runs one interaction over a
// sqlite-backed dialogue store, printing the resulting trace as JSON.
package engine

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	app "github.com/openagora/ludics/internal/engine"
	"github.com/openagora/ludics/internal/ludics/interaction"
	entrypoint "github.com/openagora/ludics/internal/platform/cmd"
	"github.com/openagora/ludics/internal/storage/sqlite"
)

// Config holds engine command configuration.
type Config struct {
	DBPath      string `env:"LUDICS_ENGINE_DB" envDefault:"ludics.db"`
	PosDesignID string `env:"LUDICS_ENGINE_POS_DESIGN"`
	NegDesignID string `env:"LUDICS_ENGINE_NEG_DESIGN"`
	StartActID  string
	MaxPairs    int    `env:"LUDICS_ENGINE_MAX_PAIRS"`
	Mode        string `env:"LUDICS_ENGINE_MODE" envDefault:"assoc"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.PosDesignID, "pos", cfg.PosDesignID, "positive design id")
	fs.StringVar(&cfg.NegDesignID, "neg", cfg.NegDesignID, "negative design id")
	fs.StringVar(&cfg.StartActID, "start-act", "", "resume from this positive act id")
	fs.IntVar(&cfg.MaxPairs, "max-pairs", cfg.MaxPairs, "interaction fuel (0 = default)")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "composition mode (assoc, partial, spiritual)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type pairOutput struct {
	PosActID  string `json:"posActId"`
	NegActID  string `json:"negActId"`
	LocusPath string `json:"locusPath"`
}

type traceOutput struct {
	DialogueID      string       `json:"dialogueId"`
	PosDesignID     string       `json:"posDesignId"`
	NegDesignID     string       `json:"negDesignId"`
	Status          string       `json:"status"`
	Reason          string       `json:"reason,omitempty"`
	Pairs           []pairOutput `json:"pairs"`
	DecisiveIndices []int        `json:"decisiveIndices,omitempty"`
}

// Run executes one interaction between the configured designs and writes the
// trace to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.PosDesignID == "" || cfg.NegDesignID == "" {
		return fmt.Errorf("both a positive and a negative design id are required")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEngine, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.New(store)
		trace, err := svc.StepInteraction(ctx, app.StepRequest{
			PosDesignID:   cfg.PosDesignID,
			NegDesignID:   cfg.NegDesignID,
			StartPosActID: cfg.StartActID,
			MaxPairs:      cfg.MaxPairs,
			Mode:          cfg.Mode,
		})
		if err != nil {
			return err
		}
		return printTrace(out, trace)
	})
}

func printTrace(out io.Writer, trace interaction.Trace) error {
	result := traceOutput{
		DialogueID:      trace.DialogueID,
		PosDesignID:     trace.PosDesignID,
		NegDesignID:     trace.NegDesignID,
		Status:          trace.Status.String(),
		Reason:          trace.Reason,
		Pairs:           make([]pairOutput, 0, len(trace.Pairs)),
		DecisiveIndices: trace.DecisiveIndices,
	}
	for _, pair := range trace.Pairs {
		result.Pairs = append(result.Pairs, pairOutput{
			PosActID:  pair.PosActID,
			NegActID:  pair.NegActID,
			LocusPath: pair.LocusPath,
		})
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
