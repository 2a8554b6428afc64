// Package seed parses seed command flags and populates a sqlite store with a
// small demo dialogue: two designs, their acts, and commitment elements for
// both participants.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	app "github.com/openagora/ludics/internal/engine"
	"github.com/openagora/ludics/internal/ludics/act"
	entrypoint "github.com/openagora/ludics/internal/platform/cmd"
	"github.com/openagora/ludics/internal/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath  string `env:"LUDICS_SEED_DB" envDefault:"ludics.db"`
	Topic   string `env:"LUDICS_SEED_TOPIC" envDefault:"the invoice is payable"`
	Step    bool
	Verbose bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.Topic, "topic", cfg.Topic, "dialogue topic")
	fs.BoolVar(&cfg.Step, "step", false, "run the interaction after seeding")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Result names what a seed run created, for callers that want to follow up
// with an interaction.
type Result struct {
	DialogueID  string
	PosDesignID string
	NegDesignID string
}

// Run seeds the demo dialogue and optionally plays the interaction.
func Run(ctx context.Context, cfg Config, out io.Writer) (Result, error) {
	if out == nil {
		out = io.Discard
	}

	var result Result
	err := entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.New(store)
		seeded, err := seedDialogue(ctx, svc, cfg.Topic)
		if err != nil {
			return err
		}
		result = seeded

		fmt.Fprintf(out, "dialogue %s\n", seeded.DialogueID)
		fmt.Fprintf(out, "  proponent design %s\n", seeded.PosDesignID)
		fmt.Fprintf(out, "  opponent design  %s\n", seeded.NegDesignID)

		if !cfg.Step {
			return nil
		}
		trace, err := svc.StepInteraction(ctx, app.StepRequest{
			PosDesignID: seeded.PosDesignID,
			NegDesignID: seeded.NegDesignID,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "interaction %s after %d pair(s)\n", trace.Status, len(trace.Pairs))
		if cfg.Verbose {
			closure, err := svc.InteractCEScoped(ctx, seeded.DialogueID, "proponent", "0")
			if err != nil {
				return err
			}
			for _, fact := range closure.DerivedFacts {
				fmt.Fprintf(out, "  derived: %s\n", fact.Label)
			}
			conflicts, err := svc.CheckSemanticDivergence(ctx, seeded.DialogueID, "proponent", "opponent", "0")
			if err != nil {
				return err
			}
			for _, conflict := range conflicts {
				fmt.Fprintf(out, "  divergence: %s vs %s\n", conflict.LabelA, conflict.LabelB)
			}
		}
		return nil
	})
	return result, err
}

func seedDialogue(ctx context.Context, svc *app.Engine, topic string) (Result, error) {
	dialogue, err := svc.CreateDialogue(ctx, topic)
	if err != nil {
		return Result{}, err
	}

	pos, err := svc.CreateDesign(ctx, dialogue.ID, "proponent", "0")
	if err != nil {
		return Result{}, err
	}
	claim := act.Proper(act.PolarityPos, "0", "1")
	claim.Expression = topic
	yield := act.Daimon("accepts the challenge outcome")
	if _, err := svc.AppendActs(ctx, pos.ID, []act.Act{claim, yield}, app.AppendOptions{EnforceAlternation: true}); err != nil {
		return Result{}, err
	}

	neg, err := svc.CreateDesign(ctx, dialogue.ID, "opponent", "0")
	if err != nil {
		return Result{}, err
	}
	challenge := act.Proper(act.PolarityNeg, "0", "1")
	challenge.Expression = "on what grounds?"
	if _, err := svc.AppendActs(ctx, neg.ID, []act.Act{challenge}, app.AppendOptions{EnforceAlternation: true}); err != nil {
		return Result{}, err
	}

	commitments := []app.AssertCommitmentInput{
		{DialogueID: dialogue.ID, Owner: "proponent", LocusPath: "0", Label: "signed", BasePolarity: "pos"},
		{DialogueID: dialogue.ID, Owner: "proponent", LocusPath: "0", Label: "delivered", BasePolarity: "pos"},
		{DialogueID: dialogue.ID, Owner: "proponent", LocusPath: "0", Label: "signed & delivered -> paid", BasePolarity: "neg"},
		{DialogueID: dialogue.ID, Owner: "opponent", LocusPath: "0", Label: "notPaid", BasePolarity: "pos", NegationOf: "paid"},
	}
	for _, input := range commitments {
		if _, err := svc.AssertCommitment(ctx, input); err != nil {
			return Result{}, err
		}
	}

	return Result{
		DialogueID:  dialogue.ID,
		PosDesignID: pos.ID,
		NegDesignID: neg.ID,
	}, nil
}
